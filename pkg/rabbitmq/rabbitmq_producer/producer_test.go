package rabbitmq_producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublisherConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PublisherConfig
		wantErr bool
	}{
		{name: "default exchange", cfg: PublisherConfig{}},
		{name: "declare topic", cfg: PublisherConfig{Exchange: ExchangeConfig{Name: "catalog_events", Kind: "topic"}, Declare: true}},
		{name: "declare without name", cfg: PublisherConfig{Exchange: ExchangeConfig{Kind: "topic"}, Declare: true}, wantErr: true},
		{name: "declare without kind", cfg: PublisherConfig{Exchange: ExchangeConfig{Name: "catalog_events"}, Declare: true}, wantErr: true},
		{name: "existing exchange needs no kind", cfg: PublisherConfig{Exchange: ExchangeConfig{Name: "catalog_events"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPublisher_RequiresManager(t *testing.T) {
	_, err := NewPublisher(PublisherConfig{}, nil)
	assert.Error(t, err)
}
