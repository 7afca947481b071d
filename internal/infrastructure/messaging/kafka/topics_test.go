package kafka

import (
	"context"
	"testing"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventEnvelope(t *testing.T) {
	payload := CaseExtractedPayload{
		CaseID:      "case-1",
		CaseName:    "Smith v. Jones",
		Citation:    "994 F.3d 1086",
		ExtractedAt: time.Now().UTC(),
	}

	env, err := NewEventEnvelope("case.extracted", "lexmeta", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "case.extracted", env.EventType)
	assert.Equal(t, "lexmeta", env.Source)
	assert.Equal(t, "v1", env.SchemaVersion)
	assert.False(t, env.Timestamp.IsZero())

	var decoded CaseExtractedPayload
	require.NoError(t, env.DecodePayload(&decoded))
	assert.Equal(t, "Smith v. Jones", decoded.CaseName)
	assert.Equal(t, "994 F.3d 1086", decoded.Citation)
}

func TestEnvelopeToMessage(t *testing.T) {
	env, err := NewEventEnvelope("case.extracted", "lexmeta", CaseExtractedPayload{CaseID: "case-1"})
	require.NoError(t, err)

	msg, err := env.ToMessage(TopicCaseExtracted, "case-1")
	require.NoError(t, err)
	assert.Equal(t, TopicCaseExtracted, msg.Topic)
	assert.Equal(t, []byte("case-1"), msg.Key)
	assert.Equal(t, "case.extracted", msg.Headers["event_type"])
	assert.Equal(t, "lexmeta", msg.Headers["source_service"])
	assert.Equal(t, env.Timestamp, msg.Timestamp)
}

func TestDecodeEmptyPayload(t *testing.T) {
	env := &EventEnvelope{}
	var decoded CaseExtractedPayload
	assert.NoError(t, env.DecodePayload(&decoded))
	assert.Empty(t, decoded.CaseID)
}

// fakeConn scripts topic admin behaviour.
type fakeConn struct {
	created    []segkafka.TopicConfig
	createErr  error
	partitions map[string]int
	closed     bool
}

func (f *fakeConn) CreateTopics(topics ...segkafka.TopicConfig) error {
	f.created = append(f.created, topics...)
	return f.createErr
}

func (f *fakeConn) ReadPartitions(topics ...string) ([]segkafka.Partition, error) {
	var out []segkafka.Partition
	for _, topic := range topics {
		for i := 0; i < f.partitions[topic]; i++ {
			out = append(out, segkafka.Partition{Topic: topic, ID: i})
		}
	}
	return out, nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestCreateTopicValidation(t *testing.T) {
	m := NewTopicManagerWithConn(&fakeConn{}, nil)
	ctx := context.Background()

	assert.Error(t, m.CreateTopic(ctx, TopicConfig{NumPartitions: 1, ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", ReplicationFactor: 1}))
	assert.Error(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1}))
}

func TestCreateTopicSetsRetention(t *testing.T) {
	fc := &fakeConn{}
	m := NewTopicManagerWithConn(fc, nil)

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name: "t", NumPartitions: 3, ReplicationFactor: 1, RetentionMs: 1000,
	})
	require.NoError(t, err)
	require.Len(t, fc.created, 1)
	require.Len(t, fc.created[0].ConfigEntries, 1)
	assert.Equal(t, "retention.ms", fc.created[0].ConfigEntries[0].ConfigName)
	assert.Equal(t, "1000", fc.created[0].ConfigEntries[0].ConfigValue)
}

func TestCreateTopicAlreadyExists(t *testing.T) {
	fc := &fakeConn{
		createErr:  assert.AnError,
		partitions: map[string]int{"t": 3},
	}
	m := NewTopicManagerWithConn(fc, nil)

	err := m.CreateTopic(context.Background(), TopicConfig{Name: "t", NumPartitions: 3, ReplicationFactor: 1})
	assert.NoError(t, err)
}

func TestEnsureDefaultTopics(t *testing.T) {
	fc := &fakeConn{}
	m := NewTopicManagerWithConn(fc, nil)

	require.NoError(t, m.EnsureDefaultTopics(context.Background()))
	require.Len(t, fc.created, 3)

	names := []string{fc.created[0].Topic, fc.created[1].Topic, fc.created[2].Topic}
	assert.Contains(t, names, TopicCaseExtracted)
	assert.Contains(t, names, TopicCaseArchived)
	assert.Contains(t, names, TopicDeadLetterCase)

	require.NoError(t, m.Close())
	assert.True(t, fc.closed)
}
