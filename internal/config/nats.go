package config

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

func OpenNATS(s *Settings, logger *zap.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(s.NATSURL, nats.Name("postflow"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("NATS connected", zap.String("url", conn.ConnectedUrl()))
	return conn, nil
}
