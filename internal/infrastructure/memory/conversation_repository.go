package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/domain/repository"
)

var _ repository.ConversationRepository = (*ConversationRepo)(nil)

// ConversationRepo implementación en memoria de ConversationRepository.
type ConversationRepo struct {
	s session
}

func (r *ConversationRepo) Create(_ context.Context, c *entity.Conversation) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.conversations[c.ID]; ok {
			return domain.ErrDuplicate
		}
		st.conversations[c.ID] = *c
		return nil
	})
}

func (r *ConversationRepo) GetByID(_ context.Context, id string) (*entity.Conversation, error) {
	var out *entity.Conversation
	err := r.s.read(func(st *state) error {
		if c, ok := st.conversations[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ConversationRepo) Update(_ context.Context, c *entity.Conversation) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.conversations[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.conversations[c.ID] = *c
		return nil
	})
}

func (r *ConversationRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.conversations[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.conversations, id)
		for k, m := range st.messages {
			if m.msg.ConversationID == id {
				delete(st.messages, k)
			}
		}
		return nil
	})
}

func (r *ConversationRepo) List(_ context.Context, f repository.ConversationFilter) ([]*entity.Conversation, error) {
	out, err := r.filter(f)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *ConversationRepo) Count(_ context.Context, f repository.ConversationFilter) (int, error) {
	out, err := r.filter(f)
	return len(out), err
}

func (r *ConversationRepo) filter(f repository.ConversationFilter) ([]*entity.Conversation, error) {
	var out []*entity.Conversation
	err := r.s.read(func(st *state) error {
		for _, c := range st.conversations {
			if f.UserID != "" && c.UserID != f.UserID {
				continue
			}
			if f.Active != nil && c.Active != *f.Active {
				continue
			}
			c := c
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

func (r *ConversationRepo) AddMessage(_ context.Context, c *entity.Conversation, m *entity.Message) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.conversations[c.ID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.messages[m.ID]; ok {
			return domain.ErrDuplicate
		}
		st.seq++
		st.messages[m.ID] = messageRow{msg: *m, seq: st.seq}
		st.conversations[c.ID] = *c
		return nil
	})
}

func (r *ConversationRepo) ListMessages(_ context.Context, conversationID string, limit, offset int) ([]*entity.Message, error) {
	var rows []messageRow
	err := r.s.read(func(st *state) error {
		for _, m := range st.messages {
			if m.msg.ConversationID == conversationID {
				rows = append(rows, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*entity.Message, 0, len(rows))
	for _, row := range rows {
		m := row.msg
		out = append(out, &m)
	}
	return page(out, limit, offset), nil
}

func (r *ConversationRepo) CountMessages(_ context.Context, conversationID string) (repository.MessageCounts, error) {
	var n repository.MessageCounts
	err := r.s.read(func(st *state) error {
		for _, m := range st.messages {
			if m.msg.ConversationID != conversationID {
				continue
			}
			n.Total++
			switch m.msg.Role {
			case entity.MessageRoleUser:
				n.User++
			case entity.MessageRoleAssistant:
				n.Assistant++
			}
		}
		return nil
	})
	return n, err
}
