package kafka

import (
	"log"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/Janarthanan-Gnanamurthy/shoplifting/internal/models"
	"github.com/goccy/go-json"
)

type Producer struct {
	Producer sarama.SyncProducer
	Topic    string
}

// NewProducer создаёт продюсер с настройками
func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &Producer{
		Producer: producer,
		Topic:    topic,
	}, nil
}

// PublishAlert отправляет одну запись истории в Kafka
func (kp *Producer) PublishAlert(rec models.DetectionRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	kafkaMsg := &sarama.ProducerMessage{
		Topic: kp.Topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(rec.ID, 10)),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := kp.Producer.SendMessage(kafkaMsg)
	if err != nil {
		return err
	}

	log.Printf("Sent alert to Kafka topic=%s partition=%d offset=%d", kp.Topic, partition, offset)
	return nil
}

func (kp *Producer) Close() error {
	return kp.Producer.Close()
}
