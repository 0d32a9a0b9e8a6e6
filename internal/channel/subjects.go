package channel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sfat/zeebe/types"
)

// Subject layout:
//
//	<prefix>.events.<topic>.<partition>.<subscriberKey>   inbound events
//	<prefix>.control.<open|close>.<topic>.<partition>    handshake notices
const (
	eventsToken  = "events"
	controlToken = "control"
)

// EventSubject returns the subject events for one subscriber are published on.
func EventSubject(prefix, topic string, partitionID int32, subscriberKey int64) string {
	return fmt.Sprintf("%s.%s.%s.%d.%d", prefix, eventsToken, topic, partitionID, subscriberKey)
}

// EventWildcard returns the subject matching every event subject under prefix.
func EventWildcard(prefix string) string {
	return prefix + "." + eventsToken + ".*.*.*"
}

// ControlSubject returns the subject of a handshake notice.
func ControlSubject(prefix, op, topic string, partitionID int32) string {
	return fmt.Sprintf("%s.%s.%s.%s.%d", prefix, controlToken, op, topic, partitionID)
}

// ParseEventSubject extracts (topic, partition, subscriber key) from an event subject.
//
// Returns:
//   - error: types.ErrInvalidSubject when subject does not follow the event layout
func ParseEventSubject(prefix, subject string) (string, int32, int64, error) {
	rest, ok := strings.CutPrefix(subject, prefix+"."+eventsToken+".")
	if !ok {
		return "", 0, 0, fmt.Errorf("%w: %q", types.ErrInvalidSubject, subject)
	}

	tokens := strings.Split(rest, ".")
	if len(tokens) != 3 || tokens[0] == "" {
		return "", 0, 0, fmt.Errorf("%w: %q", types.ErrInvalidSubject, subject)
	}

	partition, err := strconv.ParseInt(tokens[1], 10, 32)
	if err != nil || partition < 0 {
		return "", 0, 0, fmt.Errorf("%w: partition in %q", types.ErrInvalidSubject, subject)
	}

	key, err := strconv.ParseInt(tokens[2], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: subscriber key in %q", types.ErrInvalidSubject, subject)
	}

	return tokens[0], int32(partition), key, nil
}

func formatKey(key int64) []byte {
	return strconv.AppendInt(nil, key, 10)
}
