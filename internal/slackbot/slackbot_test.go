package slackbot

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-intake/internal/notion"
	"github.com/orderdesk/order-intake/internal/order"
)

func sampleRecords() []order.Record {
	return []order.Record{
		{
			CustomerName: "テスト商店",
			ProductID:    "A001",
			Quantity:     2,
			DeliveryDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			CustomerName: "テスト商店",
			ProductID:    "B002",
			Quantity:     3,
			DeliveryDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestBuildOrderNotificationTruncatesOriginalText(t *testing.T) {
	long := strings.Repeat("あ", maxOriginalTextLen+50)
	blocks, err := BuildOrderNotification(long, sampleRecords()[:1], true)
	require.NoError(t, err)

	section, ok := blocks[1].(*slack.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "…")
	// label + code fence + boundary + ellipsis
	assert.LessOrEqual(t, len([]rune(section.Text.Text)), maxOriginalTextLen+12)
}

func TestBuildOrderNotificationRejectsEmptyRecords(t *testing.T) {
	_, err := BuildOrderNotification("原文", nil, true)
	assert.Error(t, err)
}

func TestBuildOrderNotificationButtonPayloadRoundTrips(t *testing.T) {
	records := sampleRecords()
	blocks, err := BuildOrderNotification("原文テキスト", records, false)
	require.NoError(t, err)

	actions, ok := blocks[3].(*slack.ActionBlock)
	require.True(t, ok)
	button, ok := actions.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	require.True(t, ok)
	assert.Equal(t, actionApprove, button.ActionID)

	var decoded []order.Record
	require.NoError(t, json.Unmarshal([]byte(button.Value), &decoded))
	assert.Equal(t, records, decoded)

	detail, ok := blocks[2].(*slack.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, detail.Text.Text, "❌ 在庫不足")
	assert.Contains(t, detail.Text.Text, "B002 ×3")
}

type fakeAPI struct {
	posted  int
	updated int
	channel string
	ts      string
	options []slack.MsgOption
}

func (f *fakeAPI) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.posted++
	f.channel = channelID
	f.options = options
	return channelID, "1724900000.000100", nil
}

func (f *fakeAPI) UpdateMessageContext(_ context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	f.updated++
	f.channel = channelID
	f.ts = timestamp
	f.options = options
	return channelID, timestamp, "", nil
}

func (f *fakeAPI) lastBlocksJSON(t *testing.T) string {
	t.Helper()
	_, values, err := slack.UnsafeApplyMsgOptions("token", f.channel, "https://slack.com/api/", f.options...)
	require.NoError(t, err)
	return values.Get("blocks")
}

type fakeRegistrar struct {
	seq       int
	processed []order.Record
	err       error
}

func (f *fakeRegistrar) NewOrderID() string {
	f.seq++
	return "ORD" + strings.Repeat("0", 3) + string(rune('0'+f.seq))
}

func (f *fakeRegistrar) ProcessOrder(_ context.Context, rec order.Record, _, status, approvedBy string) (*notion.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	if status != statusApproved || approvedBy == "" {
		return nil, assert.AnError
	}
	f.processed = append(f.processed, rec)
	return &notion.Page{ID: "page"}, nil
}

func approvalCallback(t *testing.T, records []order.Record, actionID string) slack.InteractionCallback {
	t.Helper()
	blocks, err := BuildOrderNotification("原文", records, true)
	require.NoError(t, err)
	payload, err := json.Marshal(records)
	require.NoError(t, err)

	cb := slack.InteractionCallback{
		User:    slack.User{ID: "U123"},
		Channel: slack.Channel{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C456"}}},
	}
	cb.Message.Timestamp = "1724900000.000100"
	cb.Message.Blocks = slack.Blocks{BlockSet: blocks}
	cb.ActionCallback.BlockActions = []*slack.BlockAction{
		{ActionID: actionID, Value: string(payload)},
	}
	return cb
}

func TestApproveRegistersEveryRecordAndRewritesMessage(t *testing.T) {
	api := &fakeAPI{}
	registrar := &fakeRegistrar{}
	h := NewInteractions(api, registrar, nil)
	h.now = func() time.Time { return time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC) }

	records := sampleRecords()
	err := h.Handle(context.Background(), approvalCallback(t, records, actionApprove))
	require.NoError(t, err)

	assert.Equal(t, records, registrar.processed)
	assert.Equal(t, 1, api.updated)
	assert.Equal(t, "C456", api.channel)
	assert.Equal(t, "1724900000.000100", api.ts)

	blocksJSON := api.lastBlocksJSON(t)
	assert.Contains(t, blocksJSON, "承認 by \\u003c@U123\\u003e")
	assert.Contains(t, blocksJSON, "Notion登録済")
	assert.NotContains(t, blocksJSON, `"type":"actions"`)
}

func TestApproveFailureSurfacesInMessage(t *testing.T) {
	api := &fakeAPI{}
	registrar := &fakeRegistrar{err: assert.AnError}
	h := NewInteractions(api, registrar, nil)

	err := h.Handle(context.Background(), approvalCallback(t, sampleRecords(), actionApprove))
	require.NoError(t, err)
	assert.Contains(t, api.lastBlocksJSON(t), "Notion登録失敗")
}

func TestRejectRewritesWithoutRegistering(t *testing.T) {
	api := &fakeAPI{}
	registrar := &fakeRegistrar{}
	h := NewInteractions(api, registrar, nil)

	err := h.Handle(context.Background(), approvalCallback(t, sampleRecords(), actionReject))
	require.NoError(t, err)
	assert.Empty(t, registrar.processed)
	assert.Equal(t, 1, api.updated)
	assert.Contains(t, api.lastBlocksJSON(t), "差し戻し by")
}

func TestNotifierPostsToConfiguredChannel(t *testing.T) {
	api := &fakeAPI{}
	n := NewNotifier(api, "C456", nil)

	err := n.Notify(context.Background(), "原文", sampleRecords(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, api.posted)
	assert.Equal(t, "C456", api.channel)
}
