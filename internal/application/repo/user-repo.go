package repo

import (
	"context"
	"eventplanner/internal/application/entity"
	"fmt"
)

func (r *RepoImpl) UpsertUser(ctx context.Context, u *entity.User) (err error) {
	r.logger.Debugf("[user: %s] UpsertUser started", u.ID)
	done := r.observe("upsert", "user")
	defer func() { done(err) }()

	if _, err = r.db.Exec(ctx, upsertUser, u.ID, u.Name); err != nil {
		r.logger.Errorf("[user: %s] error upserting user: %v", u.ID, err)
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
