package nodezmq

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/go-zeromq/zmq4"
)

// Topic names monerod's ZMQ publisher frames by, one per subscribable
// notification kind. Only the two this module cares about are defined;
// monerod publishes several more (miner data, minimal variants) that a
// fuller client would add here.
type Topic string

const (
	TopicFullChainMain Topic = "json-full-chain_main"
	TopicFullTxPoolAdd Topic = "json-full-txpool_add"
)

// ChainMainNotification is the shape of one json-full-chain_main entry:
// only the fields the batch pipeline's block enumeration needs.
type ChainMainNotification struct {
	Hash      string `json:"hash"`
	Height    uint64 `json:"height"`
	Timestamp uint64 `json:"timestamp"`
}

// TxPoolAddNotification is one json-full-txpool_add entry: just the
// transaction hash, since the consumer resolves everything else itself
// once it has the hash.
type TxPoolAddNotification struct {
	TxHash string `json:"tx_hash"`
}

// JSONFromFrame splits a raw ZMQ frame of the form "topic:json..." into
// its topic and JSON payload.
func JSONFromFrame(frame []byte) (Topic, []byte, error) {
	if len(frame) == 0 {
		return "", nil, fmt.Errorf("nodezmq: malformed frame")
	}
	idx := bytes.IndexByte(frame, ':')
	if idx < 0 {
		return "", nil, fmt.Errorf("nodezmq: malformed frame")
	}
	topic := Topic(frame[:idx])
	switch topic {
	case TopicFullChainMain, TopicFullTxPoolAdd:
		return topic, frame[idx+1:], nil
	default:
		return "", nil, fmt.Errorf("nodezmq: unknown topic %q", topic)
	}
}

// Subscriber listens to monerod's ZMQ publisher and decodes the frames
// this module understands, dispatching them to the matching callback.
type Subscriber struct {
	endpoint string
	topics   []Topic
}

func NewSubscriber(endpoint string, topics ...Topic) *Subscriber {
	return &Subscriber{endpoint: endpoint, topics: topics}
}

// Listen blocks until ctx is done or the socket errors, decoding every
// frame it receives and invoking onChainMain/onTxPoolAdd as appropriate.
func (s *Subscriber) Listen(ctx context.Context, onChainMain func(*ChainMainNotification), onTxPoolAdd func([]TxPoolAddNotification)) error {
	sock := zmq4.NewSub(ctx)
	defer sock.Close()

	if err := sock.Dial(s.endpoint); err != nil {
		return fmt.Errorf("nodezmq: dial %s: %w", s.endpoint, err)
	}
	for _, topic := range s.topics {
		if err := sock.SetOption(zmq4.OptionSubscribe, string(topic)); err != nil {
			return fmt.Errorf("nodezmq: subscribe %s: %w", topic, err)
		}
	}

	for {
		msg, err := sock.Recv()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("nodezmq: recv: %w", err)
		}

		for _, frame := range msg.Frames {
			topic, payload, err := JSONFromFrame(frame)
			if err != nil {
				continue
			}
			switch topic {
			case TopicFullChainMain:
				var entries []ChainMainNotification
				if err := json.Unmarshal(payload, &entries); err != nil {
					continue
				}
				for i := range entries {
					onChainMain(&entries[i])
				}
			case TopicFullTxPoolAdd:
				var entries []TxPoolAddNotification
				if err := json.Unmarshal(payload, &entries); err == nil {
					onTxPoolAdd(entries)
				}
			}
		}
	}
}
