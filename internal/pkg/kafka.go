package pkg

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// TopicNewsPublished 新闻发布事件默认投递的 topic
const TopicNewsPublished = "newsportal.news.published"

// KafkaProducer 新闻发布事件的生产端
// 按帖子 id 做 key，同一篇帖子的事件落在同一分区，消费侧顺序可依赖
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	if cfg.Topic == "" {
		cfg.Topic = TopicNewsPublished
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaProducer) Send(ctx context.Context, key string, value []byte) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	return p.writer.WriteMessages(ctx, msg)
}

// PostKey 分区键
func PostKey(postID uint64) string {
	return strconv.FormatUint(postID, 10)
}
