package engine_test

import (
	"context"
	"errors"
	"testing"

	"fedadmin/internal/domain"
	"fedadmin/internal/engine"
	"fedadmin/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyPreconditions(t *testing.T) {
	v, b := pendingView(t, nil)

	cases := []struct {
		name    string
		target  engine.Target
		subject string
		body    string
	}{
		{"blank subject", engine.RecipientClass{Name: "owner"}, "  ", "body"},
		{"blank body", engine.RecipientClass{Name: "owner"}, "subject", ""},
		{"no ids", engine.Recipients{}, "subject", "body"},
		{"unknown class", engine.RecipientClass{Name: "everyone"}, "subject", "body"},
		{"no target", nil, "subject", "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Notify(tc.target, tc.subject, tc.body)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Equal(t, engine.NotifyIdle, v.Notifier().State())
		})
	}
	assert.Empty(t, b.notifyCalls)
}

func TestNotifySelectionDoesNotRefetch(t *testing.T) {
	pub := &recorder{}
	v, b := pendingView(t, pub)
	v.Selection().SetAll([]int64{10, 11})
	lists := b.lists()

	call, err := v.NotifySelection("Court closure", "Court 3 is closed on Sunday")
	require.NoError(t, err)
	assert.True(t, v.Notifier().Busy())

	_, err = v.NotifySelection("again", "again")
	assert.True(t, errs.IsBusy(err))

	assert.True(t, v.ApplyNotify(call.Run(context.Background(), b)))
	assert.Equal(t, engine.NotifySucceeded, v.Notifier().State())
	assert.Equal(t, lists, b.lists())
	assert.Equal(t, []int64{10, 11}, v.Selection().IDs(), "selection is kept")

	require.Len(t, b.notifyCalls, 1)
	assert.Equal(t, engine.Recipients{IDs: []int64{10, 11}}, b.notifyCalls[0].Target)
	assert.Contains(t, pub.types(), domain.EventNotificationSent)
}

func TestClassNotificationCarriesFilter(t *testing.T) {
	v, b := pendingView(t, nil)

	require.NoError(t, v.NotifyNow(context.Background(), engine.RecipientClass{Name: "recent visitors"}, "Hi", "Body"))

	require.Len(t, b.notifyCalls, 1)
	sent := b.notifyCalls[0]
	assert.Equal(t, "recent visitors", sent.Target.Describe())
	assert.Equal(t, "pending", sent.Filter.Get("status"))
	assert.Equal(t, []string{"owner", "recent visitors"}, v.Notifier().Classes())
}

func TestNotifyFailureIsRecorded(t *testing.T) {
	v, b := pendingView(t, nil)
	b.notifyErr = errors.New("smtp relay down")

	err := v.NotifyNow(context.Background(), engine.Recipients{IDs: []int64{10}}, "Hi", "Body")

	require.Error(t, err)
	assert.True(t, errs.HasCode(err, errs.CodeNotifyFailure))
	assert.Equal(t, engine.NotifyFailed, v.Notifier().State())
	assert.False(t, v.Notifier().Busy())

	_, err = v.Notify(engine.Recipients{IDs: []int64{10}}, "Hi", "Body")
	assert.NoError(t, err, "a failed send can be retried")
}

func TestStaleNotifyResultIgnored(t *testing.T) {
	n := engine.NewNotificationDispatcher([]string{"owner"})
	assert.False(t, n.Complete(engine.NotifyResult{Seq: 3}))
	assert.Equal(t, "idle", n.State().String())
}
