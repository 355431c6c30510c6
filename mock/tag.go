package mock

import (
	"context"

	"github.com/fwojciec/readlater"
)

var _ readlater.TagService = (*TagService)(nil)

// TagService is a mock implementation of readlater.TagService.
type TagService struct {
	FindTagsFn         func(ctx context.Context, userID string) ([]*readlater.Tag, error)
	DeleteTagByLabelFn func(ctx context.Context, userID, label string) (*readlater.Tag, error)
}

func (s *TagService) FindTags(ctx context.Context, userID string) ([]*readlater.Tag, error) {
	return s.FindTagsFn(ctx, userID)
}

func (s *TagService) DeleteTagByLabel(ctx context.Context, userID, label string) (*readlater.Tag, error) {
	return s.DeleteTagByLabelFn(ctx, userID, label)
}
