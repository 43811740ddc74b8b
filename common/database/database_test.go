package database

import (
	"testing"

	"github.com/rflgf/mahjong-cli/common/config"
)

func TestNewRedisRequiresAddress(t *testing.T) {
	if _, err := NewRedis(config.RedisConf{}); err == nil {
		t.Fatalf("expected error for empty redis config")
	}
}

func TestNewRedisUnreachable(t *testing.T) {
	// 1 号端口没有 redis，Ping 必然失败
	if _, err := NewRedis(config.RedisConf{Addr: "127.0.0.1:1", PoolSize: 1}); err == nil {
		t.Fatalf("expected connection error")
	}
}

func TestCloseWithoutClient(t *testing.T) {
	if err := (&RedisManager{}).Close(); err != nil {
		t.Fatalf("close expected nil, got %v", err)
	}
}

func TestNewMongoRequiresURL(t *testing.T) {
	if _, err := NewMongo(config.MongoConf{}); err == nil {
		t.Fatalf("expected error for empty mongo url")
	}
}

func TestNewMongoUnreachable(t *testing.T) {
	if _, err := NewMongo(config.MongoConf{Url: "mongodb://127.0.0.1:1/?connect=direct&serverSelectionTimeoutMS=500", Db: "mahjong"}); err == nil {
		t.Fatalf("expected ping error")
	}
	var m *MongoManager
	if err := m.Close(); err != nil {
		t.Fatalf("nil manager close expected nil, got %v", err)
	}
}
