package service

import (
	"context"
	"time"

	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/text"
	"go-blog-app/internal/validation"
)

// CommentDateLayout is the display format of CommentSummary.CommentDate.
const CommentDateLayout = "January 02, 2006"

// CommentService appends reader comments to posts.
type CommentService struct {
	posts    PostRepository
	comments CommentRepository
	policy   *validation.Policy
	authz    Authorizer
	log      logger.Logger
	now      func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(posts PostRepository, comments CommentRepository, policy *validation.Policy, authz Authorizer, log logger.Logger) *CommentService {
	return &CommentService{
		posts:    posts,
		comments: comments,
		policy:   policy,
		authz:    authz,
		log:      log,
		now:      time.Now,
	}
}

// AddComment stores a comment stamped with the server time and returns its summary.
func (s *CommentService) AddComment(ctx context.Context, postID int64, userName, content string) (*data.CommentSummary, error) {
	if err := requireRole(ctx, s.authz, auth.RoleAuthenticated); err != nil {
		return nil, err
	}

	in := data.CommentInput{UserName: userName, Content: text.StripTags(content)}
	if err := s.policy.ValidateComment(in); err != nil {
		return nil, err
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &data.Comment{
		UserName:    in.UserName,
		CommentDate: s.now(),
		Content:     in.Content,
		PostID:      postID,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.log.With(map[string]interface{}{"post_id": postID, "comment_id": comment.ID}).Debug("Comment added")
	return &data.CommentSummary{
		UserName:    comment.UserName,
		CommentDate: comment.CommentDate.Format(CommentDateLayout),
		Content:     comment.Content,
	}, nil
}
