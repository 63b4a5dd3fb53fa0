package main

import (
	"time"

	"github.com/spf13/viper"
)

var DefConfig Config

type Config struct {
	Host      string `json:"host"`
	PprofHost string `json:"pprof_host" yaml:"pprof_host" mapstructure:"pprof_host"`

	Redis  RedisConfig  `json:"redis" yaml:"redis" mapstructure:"redis"`
	DB     DBConfig     `json:"db" yaml:"db" mapstructure:"db"`
	Client ClientConfig `json:"client" yaml:"client" mapstructure:"client"`
	Push   PushConfig   `json:"push" yaml:"push" mapstructure:"push"`

	// Namespaces is the static namespace table used when the db block is
	// disabled.
	Namespaces map[string]NamespaceConfig `json:"namespaces" yaml:"namespaces" mapstructure:"namespaces"`
}

type RedisConfig struct {
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	DB       int    `json:"db" yaml:"db" mapstructure:"db"`
}

type DBConfig struct {
	Enable         bool          `json:"enable" yaml:"enable" mapstructure:"enable"`
	DSN            string        `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	Log            bool          `json:"log" yaml:"log" mapstructure:"log"`
	ReloadInterval time.Duration `json:"reload_interval" yaml:"reload_interval" mapstructure:"reload_interval"`
}

type ClientConfig struct {
	ReadMessageSizeLimit int64 `json:"read_message_size_limit" yaml:"read_message_size_limit" mapstructure:"read_message_size_limit"`
	Compression          bool  `json:"compression" yaml:"compression" mapstructure:"compression"`
	CompressionLevel     int   `json:"compression_level" yaml:"compression_level" mapstructure:"compression_level"`
	ReadBufferSize       int   `json:"read_buffer_size" yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize      int   `json:"write_buffer_size" yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
}

type NamespaceConfig struct {
	Offline string `json:"offline" yaml:"offline" mapstructure:"offline"`
}

// PushConfig carries the push pipeline limits and the redis key layout.
type PushConfig struct {
	RoomMaxLength        int           `json:"room_max_length" yaml:"room_max_length" mapstructure:"room_max_length"`
	RoomPattern          string        `json:"room_pattern" yaml:"room_pattern" mapstructure:"room_pattern"`
	MessageExpire        int           `json:"message_expire" yaml:"message_expire" mapstructure:"message_expire"`
	MessageMaxExpire     int           `json:"message_max_expire" yaml:"message_max_expire" mapstructure:"message_max_expire"`
	ApnsPayloadSize      int           `json:"apns_payload_size" yaml:"apns_payload_size" mapstructure:"apns_payload_size"`
	MessageListMaxLimit  int64         `json:"message_list_max_limit" yaml:"message_list_max_limit" mapstructure:"message_list_max_limit"`
	WorkerMessageTimeout time.Duration `json:"worker_message_timeout" yaml:"worker_message_timeout" mapstructure:"worker_message_timeout"`
	EmitMsgPickKey       bool          `json:"emit_msg_pick_key" yaml:"emit_msg_pick_key" mapstructure:"emit_msg_pick_key"`
	StatsInterval        time.Duration `json:"stats_interval" yaml:"stats_interval" mapstructure:"stats_interval"`

	MsgIDKey         string `json:"msg_id_key" yaml:"msg_id_key" mapstructure:"msg_id_key"`
	MsgPrefix        string `json:"msg_prefix" yaml:"msg_prefix" mapstructure:"msg_prefix"`
	ListPrefix       string `json:"list_prefix" yaml:"list_prefix" mapstructure:"list_prefix"`
	AckPrefix        string `json:"ack_prefix" yaml:"ack_prefix" mapstructure:"ack_prefix"`
	TempListKey      string `json:"temp_list_key" yaml:"temp_list_key" mapstructure:"temp_list_key"`
	BroadcastPrefix  string `json:"broadcast_prefix" yaml:"broadcast_prefix" mapstructure:"broadcast_prefix"`
	StatMinutePrefix string `json:"stat_minute_prefix" yaml:"stat_minute_prefix" mapstructure:"stat_minute_prefix"`
	StatHourPrefix   string `json:"stat_hour_prefix" yaml:"stat_hour_prefix" mapstructure:"stat_hour_prefix"`
	StatDayPrefix    string `json:"stat_day_prefix" yaml:"stat_day_prefix" mapstructure:"stat_day_prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", ":8080")
	v.SetDefault("pprof_host", ":6060")

	v.SetDefault("db.reload_interval", "30s")

	v.SetDefault("client.read_message_size_limit", 512)
	v.SetDefault("client.read_buffer_size", 1024)
	v.SetDefault("client.write_buffer_size", 1024)

	v.SetDefault("push.room_max_length", 64)
	v.SetDefault("push.room_pattern", "^[0-9a-zA-Z_-]+$")
	v.SetDefault("push.message_expire", 24)
	v.SetDefault("push.message_max_expire", 72)
	v.SetDefault("push.apns_payload_size", 2048)
	v.SetDefault("push.message_list_max_limit", 100)
	v.SetDefault("push.worker_message_timeout", "10s")
	v.SetDefault("push.stats_interval", "5s")

	v.SetDefault("push.msg_id_key", "push_msg_uuid")
	v.SetDefault("push.msg_prefix", "push_msg_")
	v.SetDefault("push.list_prefix", "push_msg_list_")
	v.SetDefault("push.ack_prefix", "push_ack_")
	v.SetDefault("push.temp_list_key", "push_msg_temp_list")
	v.SetDefault("push.broadcast_prefix", "home_broadcast")
	v.SetDefault("push.stat_minute_prefix", "push_stat_m_")
	v.SetDefault("push.stat_hour_prefix", "push_stat_h_")
	v.SetDefault("push.stat_day_prefix", "push_stat_d_")
}
