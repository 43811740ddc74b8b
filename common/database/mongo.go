package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/rflgf/mahjong-cli/common/config"
)

type MongoManager struct {
	Cli *mongo.Client
	Db  *mongo.Database
}

func NewMongo(mongoConf config.MongoConf) (*MongoManager, error) {
	if mongoConf.Url == "" {
		return nil, errors.New("mongodb 配置出错: url 为空")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoConf.Url)
	clientOptions.SetMinPoolSize(uint64(mongoConf.MinPoolSize))
	if mongoConf.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(uint64(mongoConf.MaxPoolSize))
	}
	clientOptions.SetServerSelectionTimeout(5 * time.Second)

	if mongoConf.Username != "" && mongoConf.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: mongoConf.Username,
			Password: mongoConf.Password,
		})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb 连接错误: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb Ping 错误: %w", err)
	}
	return &MongoManager{
		Cli: client,
		Db:  client.Database(mongoConf.Db),
	}, nil
}

func (m *MongoManager) Close() error {
	if m == nil || m.Cli == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Cli.Disconnect(ctx)
}
