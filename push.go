package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	platformAndroid = "android"
	platformIOS     = "ios"
	platformWeb     = "web"

	// ackSentinel seeds every ack set so the key exists before real acks
	// arrive.
	ackSentinel = "__ack"

	// deliveryLost in the extra field skips the live fan-out, simulating a
	// push lost on the network.
	deliveryLost = "lost"
)

// Push validates the request, persists it and fans it out to the namespace
// broadcast channel. It returns the assigned message id.
//
// Validation happens before any store write. The store writes after the id
// allocation are sequential MULTI/EXEC batches with no cross-batch
// transaction: a failure in between leaves a partial record that the key TTLs
// clean up.
func (n *Node) Push(ctx context.Context, req *PushRequest) (int64, error) {
	log := zap.S().With("method", "push")
	now := time.Now()
	p := &n.cfg.Push

	if req.Namespace == "" {
		return 0, apiErrorf("namespace can not be empty")
	}
	if req.Room == "" {
		return 0, apiErrorf("room can not be empty")
	}
	if len(req.Room) > p.RoomMaxLength || !n.roomRe.MatchString(req.Room) {
		return 0, apiErrorf("room invalid")
	}
	if req.PushData == nil {
		return 0, apiErrorf("pushData can not be empty and must be an object")
	}

	// 判断命名空间是否存在
	nsp, ok := n.reg.Lookup(req.Namespace)
	if !ok {
		return 0, apiErrorf("this namespace lose")
	}
	if nsp.Offline == "on" {
		return 0, apiErrorf("this namespace offline")
	}
	expire := req.Expire
	if expire == 0 {
		expire = p.MessageExpire
	}
	if expire > p.MessageMaxExpire {
		return 0, apiErrorf("expire invalid")
	}

	// 判断apsData转化为JSON字符串后是否超过预定长度
	if req.LeaveMessage {
		if aps, ok := req.PushData["apsData"]; ok && aps != nil {
			apsStr, err := json.Marshal(aps)
			if err != nil {
				return 0, apiErrorf("parse pushData.apsData err %v", err)
			}
			if len(apsStr) > p.ApnsPayloadSize {
				return 0, apiErrorf("pushData.apsData size must be less then %d bytes", p.ApnsPayloadSize)
			}
		}
	}

	id, err := n.rdb.Incr(ctx, p.MsgIDKey).Result()
	if err != nil {
		return 0, err
	}
	msg := &PushMessage{
		PushRequest: *req,
		ID:          id,
		SendDate:    now.UnixMilli(),
	}
	msg.Expire = expire
	ttl := time.Duration(expire) * time.Hour

	// 存储消息
	fields, err := msg.fields()
	if err != nil {
		return 0, err
	}
	msgKey := p.MsgPrefix + strconv.FormatInt(id, 10)
	pipe := n.rdb.TxPipeline()
	pipe.HSet(ctx, msgKey, fields)
	pipe.Expire(ctx, msgKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	// 存储消息ID到命名空间消息ID列表中
	listKey := p.ListPrefix + req.Namespace
	pipe = n.rdb.TxPipeline()
	pipe.LPush(ctx, listKey, id)
	pipe.LTrim(ctx, listKey, 0, p.MessageListMaxLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	// 初始化确认消息回执的客户的集合
	nspRoom := req.Namespace + "_" + req.Room
	for _, platform := range []string{platformAndroid, platformIOS, platformWeb} {
		ackKey := fmt.Sprintf("%s%s_{%s}_%d", p.AckPrefix, platform, nspRoom, id)
		pipe = n.rdb.TxPipeline()
		pipe.SAdd(ctx, ackKey, ackSentinel)
		pipe.Expire(ctx, ackKey, ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, err
		}
	}

	// 更新消息统计信息
	if err := n.updateStat(ctx, req.Namespace, now); err != nil {
		return 0, err
	}

	// 将推送消息放到离线消息队列中
	if msg.LeaveMessage {
		time.AfterFunc(p.WorkerMessageTimeout, func() {
			if err := n.rdb.LPush(context.Background(), p.TempListKey, id).Err(); err != nil {
				log.Error("push message temp list err ", err)
			}
		})
	}

	if msg.Extra != deliveryLost {
		// apsData只入库,不随频道广播
		delete(msg.PushData, "apsData")
		var envelope any = msg
		if p.EmitMsgPickKey {
			envelope = &pickedMessage{
				ID:        msg.ID,
				Namespace: msg.Namespace,
				Room:      msg.Room,
				PushData:  msg.PushData,
				SendDate:  msg.SendDate,
			}
		}
		payload, err := json.Marshal([]any{envelope, pushMeta{
			Rooms:  []string{req.Room},
			Except: req.Except,
		}})
		if err != nil {
			return 0, err
		}
		chn := p.BroadcastPrefix + "_" + req.Namespace
		if err := n.rdb.Publish(ctx, chn, payload).Err(); err != nil {
			log.Error("publish ", chn, " err ", err)
		}
	}

	return id, nil
}
