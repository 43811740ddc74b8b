package discovery

import (
	"encoding/json"
	"fmt"
)

// Server 注册到 etcd 的实例信息，key 为 /{name}/{nodeID}
type Server struct {
	Name    string  `json:"name"`
	NodeID  string  `json:"nodeID"`
	Addr    string  `json:"addr"`
	Version string  `json:"version"`
	Ttl     int64   `json:"ttl"`
	Load    float64 `json:"load"`
}

func (s Server) buildKey() string {
	return fmt.Sprintf("/%s/%s", s.Name, s.NodeID)
}

func ParseValue(v []byte) (Server, error) {
	var s Server
	if err := json.Unmarshal(v, &s); err != nil {
		return s, err
	}
	return s, nil
}
