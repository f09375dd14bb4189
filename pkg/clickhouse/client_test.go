package clickhouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(ClientConfig{
		Host:        "ch",
		Port:        9000,
		Database:    "insidex",
		User:        "default",
		Password:    "pw",
		DialTimeout: 5 * time.Second,
		ReadTimeout: 30 * time.Second,
		MaxExecTime: time.Minute,
	})
	assert.Equal(t, "clickhouse://default:pw@ch:9000/insidex?dial_timeout=5s&read_timeout=30s&max_execution_time=60", dsn)

	dsn = buildDSN(ClientConfig{Host: "ch", Port: 8123, Database: "insidex", User: "u", UseHTTP: true})
	assert.Equal(t, "clickhouse+http://u:@ch:8123/insidex", dsn)
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient()
	assert.Error(t, err)
}
