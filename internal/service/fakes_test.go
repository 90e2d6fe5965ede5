package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"infoguru-be/internal/entity"
	"infoguru-be/internal/repository/contract"
	"infoguru-be/internal/repository/unitofwork"
	"infoguru-be/pkg/events"
	"infoguru-be/pkg/llm"
	"infoguru-be/pkg/token"

	"github.com/google/uuid"
)

// memoryDB backs every fake repository handed out by fakeFactory.
type memoryDB struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	chats    map[uuid.UUID]*entity.Chat
	messages []*entity.Message

	// failMessageOnCall makes the n-th message insert (1-based) return failMessageErr.
	failMessageOnCall int
	failMessageErr    error
	messageCreates    int
}

type memorySnapshot struct {
	users    map[uuid.UUID]*entity.User
	chats    map[uuid.UUID]*entity.Chat
	messages []*entity.Message
}

func (db *memoryDB) snapshot() *memorySnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	snap := &memorySnapshot{
		users:    make(map[uuid.UUID]*entity.User, len(db.users)),
		chats:    make(map[uuid.UUID]*entity.Chat, len(db.chats)),
		messages: append([]*entity.Message(nil), db.messages...),
	}
	for k, v := range db.users {
		snap.users[k] = v
	}
	for k, v := range db.chats {
		snap.chats[k] = v
	}
	return snap
}

func (db *memoryDB) restore(snap *memorySnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = snap.users
	db.chats = snap.chats
	db.messages = snap.messages
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users: make(map[uuid.UUID]*entity.User),
		chats: make(map[uuid.UUID]*entity.Chat),
	}
}

func (db *memoryDB) messageCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.messages)
}

func (db *memoryDB) chatCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.chats)
}

type fakeFactory struct{ db *memoryDB }

func (f fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{db: f.db}
}

// fakeUnitOfWork snapshots the store on Begin and restores it on an
// uncommitted Rollback.
type fakeUnitOfWork struct {
	db   *memoryDB
	snap *memorySnapshot
}

func (u *fakeUnitOfWork) Begin(context.Context) error {
	if u.snap != nil {
		return errors.New("transaction already started")
	}
	u.snap = u.db.snapshot()
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if u.snap == nil {
		return errors.New("no transaction to commit")
	}
	u.snap = nil
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.snap != nil {
		u.db.restore(u.snap)
		u.snap = nil
	}
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository       { return fakeUserRepo{u.db} }
func (u *fakeUnitOfWork) ChatRepository() contract.ChatRepository       { return fakeChatRepo{u.db} }
func (u *fakeUnitOfWork) MessageRepository() contract.MessageRepository { return fakeMessageRepo{u.db} }

type fakeUserRepo struct{ db *memoryDB }

func (r fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return contract.ErrDuplicateEmail
		}
	}
	cp := *user
	r.db.users[user.Id] = &cp
	return nil
}

func (r fakeUserRepo) FindById(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*entity.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeChatRepo struct{ db *memoryDB }

func (r fakeChatRepo) Create(_ context.Context, chat *entity.Chat) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[chat.UserId]; !ok {
		return errors.New("violates foreign key constraint")
	}
	cp := *chat
	r.db.chats[chat.Id] = &cp
	return nil
}

func (r fakeChatRepo) FindById(_ context.Context, id uuid.UUID) (*entity.Chat, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.chats[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r fakeChatRepo) FindAllByUser(_ context.Context, userId uuid.UUID) ([]*entity.Chat, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Chat
	for _, c := range r.db.chats {
		if c.UserId == userId {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeMessageRepo struct{ db *memoryDB }

func (r fakeMessageRepo) Create(_ context.Context, msg *entity.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.messageCreates++
	if r.db.failMessageOnCall > 0 && r.db.messageCreates == r.db.failMessageOnCall {
		return r.db.failMessageErr
	}
	if _, ok := r.db.chats[msg.ChatId]; !ok {
		return errors.New("violates foreign key constraint")
	}
	cp := *msg
	r.db.messages = append(r.db.messages, &cp)
	return nil
}

func (r fakeMessageRepo) FindAllByChat(_ context.Context, chatId uuid.UUID) ([]*entity.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Message
	for _, m := range r.db.messages {
		if m.ChatId == chatId {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type stubGenerator struct {
	reply   string
	err     error
	history []llm.Message
}

func (g *stubGenerator) Generate(_ context.Context, history []llm.Message, _ string) (string, error) {
	g.history = history
	return g.reply, g.err
}

func newTestTokens() *token.Manager {
	return token.NewManager("test-secret", time.Minute, time.Hour, token.NewMemoryBlacklist())
}
