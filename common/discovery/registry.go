package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/rflgf/mahjong-cli/common/config"
	"github.com/rflgf/mahjong-cli/common/log"
)

/*
etcd 注册器
	1.计分实例注册到 etcd，供网关或其它服务发现
	2.Monitor 定期通过 UpdateLoad 上报负载
	3.租约断开后自动重新注册
*/

type Registry struct {
	etcdCli     *clientv3.Client
	leaseID     clientv3.LeaseID
	DialTimeout time.Duration
	keepAliveCh <-chan *clientv3.LeaseKeepAliveResponse
	mu          sync.Mutex
	info        Server
	closeCh     chan struct{}
	doneCh      chan struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		DialTimeout: 3 * time.Second,
	}
}

func (r *Registry) Register(conf config.EtcdConf, nodeID string) error {
	if nodeID == "" {
		return errors.New("nodeID 不能为空")
	}
	if len(conf.Addrs) == 0 {
		return errors.New("etcd addrs 不能为空")
	}
	if conf.Register.Ttl <= 0 {
		return errors.New("etcd register.ttl 必须大于 0")
	}
	if conf.DialTimeout > 0 {
		r.DialTimeout = time.Duration(conf.DialTimeout) * time.Second
	}

	r.info = Server{
		Name:    conf.Register.Name,
		NodeID:  nodeID,
		Addr:    conf.Register.Addr,
		Version: conf.Register.Version,
		Ttl:     int64(conf.Register.Ttl),
	}

	var err error
	r.etcdCli, err = clientv3.New(clientv3.Config{
		Endpoints:   conf.Addrs,
		DialTimeout: r.DialTimeout,
	})
	if err != nil {
		return err
	}

	if err := r.doRegister(); err != nil {
		_ = r.etcdCli.Close()
		return err
	}

	r.closeCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	go r.watch()
	return nil
}

func (r *Registry) doRegister() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.DialTimeout)
	defer cancel()

	lease, err := r.etcdCli.Grant(ctx, r.info.Ttl)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.leaseID = lease.ID
	r.mu.Unlock()

	if err := r.put(ctx); err != nil {
		return err
	}
	log.Info("etcd 注册信息: %s", r.info.buildKey())

	// keepAlive 需要长期运行
	r.keepAliveCh, err = r.etcdCli.KeepAlive(context.Background(), lease.ID)
	if err != nil {
		log.Error("租约续期失败: %v", err)
		return err
	}
	return nil
}

func (r *Registry) put(ctx context.Context) error {
	r.mu.Lock()
	data, err := json.Marshal(r.info)
	key, leaseID := r.info.buildKey(), r.leaseID
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if _, err := r.etcdCli.Put(ctx, key, string(data), clientv3.WithLease(leaseID)); err != nil {
		log.Error("租约绑定失败: %v", err)
		return err
	}
	return nil
}

func (r *Registry) watch() {
	defer close(r.doneCh)
	ticker := time.NewTicker(time.Duration(r.info.Ttl) * time.Second / 2)
	defer ticker.Stop()

	for {
		select {
		case res, ok := <-r.keepAliveCh:
			if !ok || res == nil {
				log.Warn("keepAlive 连接断开，重新注册服务")
				r.keepAliveCh = nil
				if err := r.doRegister(); err != nil {
					log.Error("重新注册失败: %v", err)
				} else {
					log.Info("重新注册成功")
				}
			}
		case <-ticker.C:
			// 兜底：keepAliveCh 为空说明上次重新注册失败
			if r.keepAliveCh == nil {
				if err := r.doRegister(); err != nil {
					log.Error("定时器重新注册失败: %v", err)
				} else {
					log.Info("定时器重新注册成功")
				}
			}
		case <-r.closeCh:
			ctx, cancel := context.WithTimeout(context.Background(), r.DialTimeout)
			if _, err := r.etcdCli.Delete(ctx, r.info.buildKey()); err != nil {
				log.Error("注销服务失败: %v", err)
			}
			if _, err := r.etcdCli.Revoke(ctx, r.leaseID); err != nil {
				log.Error("撤销租约失败: %v", err)
			}
			cancel()
			log.Info("关闭租约续期")
			return
		}
	}
}

// UpdateLoad 更新负载评分，沿用现有租约
func (r *Registry) UpdateLoad(load float64) error {
	r.mu.Lock()
	r.info.Load = load
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.DialTimeout)
	defer cancel()
	return r.put(ctx)
}

// Close 注销并关闭客户端，阻塞到注销完成
func (r *Registry) Close() {
	if r.closeCh == nil {
		return
	}
	close(r.closeCh)
	<-r.doneCh
	_ = r.etcdCli.Close()
}
