package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openvault/notechat-mcp/internal/notify"
)

func TestNoticeBuilders(t *testing.T) {
	n := notify.Info("working")
	require.Equal(t, notify.LevelInfo, n.Level)
	require.Equal(t, notify.DefaultDuration, n.Duration)
	require.False(t, n.CreatedAt.IsZero())

	require.Equal(t, notify.LevelSuccess, notify.Success("done").Level)
	require.Equal(t, notify.LevelFailure, notify.Failure("broke").Level)
}

func TestWithDuration(t *testing.T) {
	n := notify.WithDuration(notify.Info("long running"), 10*time.Second)
	require.Equal(t, 10*time.Second, n.Duration)
	require.Equal(t, notify.LevelInfo, n.Level)
}

func TestPanelSink_Drain(t *testing.T) {
	sink := notify.NewPanelSink(0)
	sink.Notify(notify.Info("one"))
	sink.Notify(notify.Success("two"))

	notices := sink.Drain()
	require.Len(t, notices, 2)
	require.Equal(t, "one", notices[0].Message)
	require.Equal(t, "two", notices[1].Message)

	require.Empty(t, sink.Drain())
}

func TestPanelSink_Capacity(t *testing.T) {
	sink := notify.NewPanelSink(2)
	sink.Notify(notify.Info("one"))
	sink.Notify(notify.Info("two"))
	sink.Notify(notify.Info("three"))

	notices := sink.Drain()
	require.Len(t, notices, 2)
	require.Equal(t, "two", notices[0].Message)
	require.Equal(t, "three", notices[1].Message)
}

func TestFanout(t *testing.T) {
	a := notify.NewPanelSink(0)
	b := notify.NewPanelSink(0)

	notify.Fanout{a, b}.Notify(notify.Failure("broke"))

	require.Len(t, a.Drain(), 1)
	require.Len(t, b.Drain(), 1)
}
