package main

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Node wires the push pipeline to its collaborators: the redis store, the
// namespace registry and the stats monitor upgrader.
type Node struct {
	cfg *Config

	rdb *redis.Client
	reg *Registry

	roomRe *regexp.Regexp

	upgrader websocket.Upgrader
}

func newNode() *Node {
	log := zap.S()

	cfg := &DefConfig
	roomRe, err := regexp.Compile(cfg.Push.RoomPattern)
	if err != nil {
		log.Fatal("room pattern:", err)
	}

	n := &Node{
		cfg:    cfg,
		roomRe: roomRe,
		reg:    newRegistry(cfg),
	}

	n.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.Client.ReadBufferSize,
		WriteBufferSize: cfg.Client.WriteBufferSize,
	}
	n.upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}

	n.rdb = redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Host,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
	})
	if err := n.rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis err:", err.Error())
	}

	return n
}

func (n *Node) Close() {
	if n.reg != nil {
		n.reg.Close()
	}
	if n.rdb != nil {
		n.rdb.Close()
	}
}
