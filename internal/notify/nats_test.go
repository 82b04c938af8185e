package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwscc/distbuilder/internal/config"
	derrors "github.com/wwscc/distbuilder/internal/errors"
)

type fakeConn struct {
	subject  string
	payload  []byte
	pubErr   error
	flushErr error
	closed   bool
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.subject = subj
	f.payload = data
	return f.pubErr
}

func (f *fakeConn) FlushWithContext(context.Context) error { return f.flushErr }
func (f *fakeConn) Close()                                 { f.closed = true }

func TestNotify(t *testing.T) {
	fc := &fakeConn{}
	n := &NATSNotifier{conn: fc, url: "nats://localhost:4222", subject: "distbuilder.builds"}

	require.NoError(t, n.Notify(context.Background(), []byte(`{"id":"1"}`)))
	assert.Equal(t, "distbuilder.builds", fc.subject)
	assert.JSONEq(t, `{"id":"1"}`, string(fc.payload))

	n.Close()
	assert.True(t, fc.closed)
}

func TestNotify_Errors(t *testing.T) {
	n := &NATSNotifier{conn: &fakeConn{pubErr: errors.New("closed")}, subject: "s"}
	err := n.Notify(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNetwork))

	n = &NATSNotifier{conn: &fakeConn{flushErr: context.DeadlineExceeded}, subject: "s"}
	err = n.Notify(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryNetwork))
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := Connect(&config.NotifyConfig{})
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}
