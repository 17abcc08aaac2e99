package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_StopTerminatesRunLoop(t *testing.T) {
	// Arrange
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	client := NewClient(hub, nil, "1")
	hub.Register(client)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond, "клиент не зарегистрировался")

	// Act
	hub.Stop()

	// Assert: цикл Run завершается, клиентские каналы закрываются
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("цикл Run не завершился после Stop")
	}

	_, open := <-client.send
	assert.False(t, open, "канал отправки клиента должен быть закрыт")
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_StopIsIdempotent(t *testing.T) {
	// Arrange
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run()
		close(stopped)
	}()

	// Act: повторный Stop не должен паниковать на закрытом канале
	hub.Stop()
	hub.Stop()

	// Assert
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("цикл Run не завершился после Stop")
	}
}

func TestHub_SendToUserReachesAllConnections(t *testing.T) {
	// Arrange: у пользователя две вкладки — два соединения
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	first := NewClient(hub, nil, "7")
	second := NewClient(hub, nil, "7")
	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	// Act
	sent := hub.SendToUser("7", []byte(`{"type":"notification:new"}`))

	// Assert
	assert.True(t, sent)
	assert.Equal(t, []byte(`{"type":"notification:new"}`), <-first.send)
	assert.Equal(t, []byte(`{"type":"notification:new"}`), <-second.send)
}
