package repository

import (
	"context"
	"sort"
	"time"

	"refuge/internal/domain"
)

// MemoryUsers пользователи поверх MemoryStore
type MemoryUsers struct{ store *MemoryStore }

func NewMemoryUsers(store *MemoryStore) *MemoryUsers { return &MemoryUsers{store: store} }

var _ UserRepository = (*MemoryUsers)(nil)

func (mu *MemoryUsers) Ensure(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	if existing, ok := mu.store.st.usersByID[u.ID]; ok {
		*u = existing
		return nil
	}
	u.CreatedAt = time.Now().UTC()
	mu.store.st.usersByID[u.ID] = *u
	return nil
}

func (mu *MemoryUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	mu.store.rlock(ctx)
	defer mu.store.runlock(ctx)
	u, ok := mu.store.st.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (mu *MemoryUsers) Update(ctx context.Context, u *domain.User) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	old, ok := mu.store.st.usersByID[u.ID]
	if !ok {
		return ErrNotFound
	}
	u.CreatedAt = old.CreatedAt
	mu.store.st.usersByID[u.ID] = *u
	return nil
}

func (mu *MemoryUsers) Delete(ctx context.Context, id int64) error {
	mu.store.wlock(ctx)
	defer mu.store.wunlock(ctx)
	st := mu.store.st
	if _, ok := st.usersByID[id]; !ok {
		return ErrNotFound
	}
	for cid, c := range st.cartsByID {
		if c.UserID != id {
			continue
		}
		for lid, l := range st.cartLinesByID {
			if l.CartID == cid {
				delete(st.cartLinesByID, lid)
			}
		}
		delete(st.cartsByID, cid)
	}
	for oid, o := range st.ordersByID {
		if o.UserID == id {
			delete(st.ordersByID, oid)
		}
	}
	for rid, r := range st.requestsByID {
		if r.UserID == id {
			delete(st.requestsByID, rid)
		}
	}
	for nid, n := range st.notifsByID {
		if n.UserID == id {
			delete(st.notifsByID, nid)
		}
	}
	delete(st.usersByID, id)
	return nil
}

// MemoryNotifications лента уведомлений
type MemoryNotifications struct{ store *MemoryStore }

func NewMemoryNotifications(store *MemoryStore) *MemoryNotifications {
	return &MemoryNotifications{store: store}
}

var _ NotificationRepository = (*MemoryNotifications)(nil)

func (mn *MemoryNotifications) Create(ctx context.Context, n *domain.Notification) error {
	mn.store.wlock(ctx)
	defer mn.store.wunlock(ctx)
	n.ID = mn.store.st.nextNotifID
	mn.store.st.nextNotifID++
	n.CreatedAt = time.Now().UTC()
	mn.store.st.notifsByID[n.ID] = *n
	return nil
}

func (mn *MemoryNotifications) List(ctx context.Context, userID int64, includeRead bool) ([]domain.Notification, error) {
	mn.store.rlock(ctx)
	defer mn.store.runlock(ctx)
	out := make([]domain.Notification, 0)
	for _, n := range mn.store.st.notifsByID {
		if n.UserID != userID || (n.Read && !includeRead) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (mn *MemoryNotifications) MarkRead(ctx context.Context, userID, id int64) error {
	mn.store.wlock(ctx)
	defer mn.store.wunlock(ctx)
	n, ok := mn.store.st.notifsByID[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.Read = true
	mn.store.st.notifsByID[id] = n
	return nil
}

func (mn *MemoryNotifications) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	mn.store.wlock(ctx)
	defer mn.store.wunlock(ctx)
	var updated int64
	for id, n := range mn.store.st.notifsByID {
		if n.UserID == userID && !n.Read {
			n.Read = true
			mn.store.st.notifsByID[id] = n
			updated++
		}
	}
	return updated, nil
}
