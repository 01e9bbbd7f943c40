package messaging_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/messaging"
	"github.com/jhoicas/Gestion-api/internal/application/storeaccess"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/kv"
)

var (
	staff  = &entity.Identity{ID: "u-staff", Name: "Alice", Role: entity.RoleSecretaire}
	client = &entity.Identity{ID: "u-client", Name: "Bob", Role: entity.RoleClient}
)

func TestCanAccess(t *testing.T) {
	assert.True(t, messaging.CanAccess(staff, "team"))
	assert.True(t, messaging.CanAccess(staff, "support:u-client"))
	assert.True(t, messaging.CanAccess(client, "support:u-client"))
	assert.False(t, messaging.CanAccess(client, "support:otro"))
	assert.False(t, messaging.CanAccess(client, "team"))
	assert.False(t, messaging.CanAccess(nil, "team"))
	assert.False(t, messaging.CanAccess(staff, "Con Espacios"))
}

func TestChat_EnviarHistorialNoLeidos(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	alerts := messaging.NewAlerts(store, zerolog.Nop())
	chat := messaging.NewChat(store, alerts, zerolog.Nop())
	conv := messaging.SupportConversation(client.ID)

	m1, err := chat.Send(ctx, conv, client, "  Bonjour  ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), m1.Seq)
	assert.Equal(t, "Bonjour", m1.Body)
	_, err = chat.Send(ctx, conv, staff, "Hola")
	require.NoError(t, err)

	all, err := chat.History(ctx, conv, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	after, err := chat.History(ctx, conv, 1)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "Hola", after[0].Body)

	n, err := chat.Unread(ctx, staff.ID, conv)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, chat.MarkOpened(ctx, staff.ID, conv))
	n, err = chat.Unread(ctx, staff.ID, conv)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// solo el mensaje del cliente genera aviso
	list, err := alerts.Recent(ctx, storeaccess.StoreAccess{AccessType: storeaccess.Global}, storeaccess.DefaultPolicy(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.NotificationNewMessage, list[0].Kind)
	assert.Equal(t, conv, list[0].RefID)
}

func TestChat_Rechazos(t *testing.T) {
	ctx := context.Background()
	chat := messaging.NewChat(kv.NewMemoryStore(), nil, zerolog.Nop())

	_, err := chat.Send(ctx, "team", client, "hola")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = chat.Send(ctx, "team", staff, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChat_TranscripcionAcotada(t *testing.T) {
	ctx := context.Background()
	chat := messaging.NewChat(kv.NewMemoryStore(), nil, zerolog.Nop())
	for i := 0; i < messaging.TranscriptLimit+5; i++ {
		_, err := chat.Send(ctx, "team", staff, fmt.Sprintf("m%d", i))
		require.NoError(t, err)
	}
	all, err := chat.History(ctx, "team", 0)
	require.NoError(t, err)
	require.Len(t, all, messaging.TranscriptLimit)
	assert.Equal(t, int64(6), all[0].Seq)
}

func TestPoller_EntregaSoloMensajesNuevos(t *testing.T) {
	ctx := context.Background()
	chat := messaging.NewChat(kv.NewMemoryStore(), nil, zerolog.Nop())
	_, err := chat.Send(ctx, "team", staff, "viejo")
	require.NoError(t, err)

	poller := messaging.NewPoller(chat, 10*time.Millisecond, zerolog.Nop())
	defer poller.Close()

	var mu sync.Mutex
	var got []string
	cancel := poller.OnNewMessage("team", func(m entity.ChatMessage) {
		mu.Lock()
		got = append(got, m.Body)
		mu.Unlock()
	})

	_, err = chat.Send(ctx, "team", staff, "nuevo 1")
	require.NoError(t, err)
	_, err = chat.Send(ctx, "team", staff, "nuevo 2")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	cancel()
	_, err = chat.Send(ctx, "team", staff, "tras cancelar")
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"nuevo 1", "nuevo 2"}, got)
}

func TestPoller_EnviosConcurrentesSinHuecos(t *testing.T) {
	ctx := context.Background()
	chat := messaging.NewChat(kv.NewMemoryStore(), nil, zerolog.Nop())
	poller := messaging.NewPoller(chat, time.Millisecond, zerolog.Nop())
	defer poller.Close()

	var mu sync.Mutex
	var seqs []int64
	cancel := poller.OnNewMessage("team", func(m entity.ChatMessage) {
		mu.Lock()
		seqs = append(seqs, m.Seq)
		mu.Unlock()
	})
	defer cancel()

	const senders = 40
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := chat.Send(ctx, "team", staff, fmt.Sprintf("m%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := chat.History(ctx, "team", 0)
	require.NoError(t, err)
	require.Len(t, all, senders)
	for i, m := range all {
		assert.Equal(t, int64(i+1), m.Seq)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seqs) == senders
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	for i, seq := range seqs {
		assert.Equal(t, int64(i+1), seq)
	}
}

func TestPoller_Wait(t *testing.T) {
	chat := messaging.NewChat(kv.NewMemoryStore(), nil, zerolog.Nop())
	poller := messaging.NewPoller(chat, 10*time.Millisecond, zerolog.Nop())
	defer poller.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	msgs, err := poller.Wait(ctx, "team", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = chat.Send(context.Background(), "team", staff, "llegó")
	}()
	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	msgs, err = poller.Wait(ctx2, "team", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "llegó", msgs[0].Body)
}

func TestAlerts_FiltradoPorTiendaYNoVistos(t *testing.T) {
	ctx := context.Background()
	alerts := messaging.NewAlerts(kv.NewMemoryStore(), zerolog.Nop())
	alerts.Notify(ctx, entity.Notification{Kind: entity.NotificationLowStock, StoreID: "s1", Title: "A"})
	alerts.Notify(ctx, entity.Notification{Kind: entity.NotificationNewSale, StoreID: "s2", Title: "B"})
	alerts.Notify(ctx, entity.Notification{Kind: entity.NotificationNewMessage, Title: "C"})

	single := storeaccess.StoreAccess{AccessType: storeaccess.Single, AccessibleStoreIDs: []string{"s1"}, ActiveStoreID: "s1"}
	policy := storeaccess.DefaultPolicy()

	list, err := alerts.Recent(ctx, single, policy, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0].Title)
	assert.Equal(t, "A", list[1].Title)
	assert.NotEmpty(t, list[0].ID)

	n, err := alerts.Unseen(ctx, "u1", single, policy)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, alerts.MarkSeen(ctx, "u1"))
	n, err = alerts.Unseen(ctx, "u1", single, policy)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestVisitors(t *testing.T) {
	ctx := context.Background()
	v := messaging.NewVisitors(kv.NewMemoryStore(), zerolog.Nop())
	v.Record(ctx, "shop")
	v.Record(ctx, "shop")
	v.Record(ctx, "no-existe")

	st, err := v.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Total)
	assert.Equal(t, int64(3), st.Today)
	assert.Equal(t, int64(2), st.ByView["shop"])
	assert.Equal(t, int64(1), st.ByView["dashboard"])
}

func TestBasket(t *testing.T) {
	ctx := context.Background()
	b := messaging.NewBasket(kv.NewMemoryStore())

	on, err := b.ToggleFavorite(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.True(t, on)
	_, err = b.ToggleFavorite(ctx, "u1", "a2")
	require.NoError(t, err)
	on, err = b.ToggleFavorite(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.False(t, on)
	favs, err := b.Favorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, favs)

	cart, err := b.SetCart(ctx, "u1", []messaging.CartItem{{ArticleID: "a1", Quantity: 1}, {ArticleID: "a1", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, []messaging.CartItem{{ArticleID: "a1", Quantity: 3}}, cart)
	_, err = b.SetCart(ctx, "u1", []messaging.CartItem{{ArticleID: "a1", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, b.ClearCart(ctx, "u1"))
	cart, err = b.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart)
}
