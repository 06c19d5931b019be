package service

import (
	"context"
	"eventplanner/internal/application/entity"
	"strings"
	"time"
)

const userLookupTimeout = 2 * time.Second

func (s *ServiceImpl) SaveUser(ctx context.Context, u *entity.User) error {
	u.ID = strings.TrimSpace(u.ID)
	u.Name = strings.TrimSpace(u.Name)
	s.logger.Debugf("[user: %s] SaveUser started", u.ID)

	return s.repo.UpsertUser(ctx, u)
}

// resolveCreatorNames дозаполняет имена авторов, которых нет в users, из справочника.
// Ошибки справочника не влияют на ответ: имя просто остаётся пустым.
func (s *ServiceImpl) resolveCreatorNames(ctx context.Context, events ...*entity.Event) {
	if s.users == nil {
		return
	}

	names := make(map[string]string)
	for _, e := range events {
		if e.CreatorName != "" {
			continue
		}
		name, seen := names[e.CreatedBy]
		if !seen {
			name = s.lookupUserName(ctx, e.CreatedBy)
			names[e.CreatedBy] = name
		}
		e.CreatorName = name
	}
}

func (s *ServiceImpl) lookupUserName(ctx context.Context, userID string) string {
	ctx, cancel := context.WithTimeout(ctx, userLookupTimeout)
	defer cancel()

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		s.logger.Warnf("[user: %s] user directory lookup failed: %v", userID, err)
		return ""
	}

	if err := s.repo.UpsertUser(ctx, u); err != nil {
		s.logger.Warnf("[user: %s] caching user failed: %v", userID, err)
	}
	return u.Name
}
