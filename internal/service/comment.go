package service

import (
	"context"
	"sort"
	"strings"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/rabbitmq"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	commentKind = "comment"
	replyKind   = "reply"
)

type commentService struct {
	*deps
}

func newCommentService(d *deps) Comment {
	return &commentService{
		deps: d,
	}
}

func (s *commentService) Create(ctx context.Context, actor *model.User, postID bson.ObjectID, req dto.CreateCommentRequest) (*model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	var comment *model.Comment
	post, err := s.mutatePost(ctx, postID, func(post *model.Post) error {
		comment = model.NewComment(actor, content, s.now())
		post.AddComment(comment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CommentCreated(commentKind)
	s.publish(ctx, rabbitmq.COMMENT_CREATED_KEY, dto.MQCommentCreatedMsg{
		PostID:       post.ID,
		PostAuthorID: post.AuthorID,
		CommentID:    comment.ID,
		UserID:       actor.ID,
		CreatedAt:    comment.CreatedAt,
	})

	return comment, nil
}

func (s *commentService) Reply(ctx context.Context, actor *model.User, postID, commentID bson.ObjectID, req dto.CreateCommentRequest) (*model.Reply, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	var reply *model.Reply
	post, err := s.mutatePost(ctx, postID, func(post *model.Post) error {
		parent := post.Comment(commentID)
		if parent == nil {
			return ErrCommentNotFound
		}
		reply = model.NewReply(actor, content, s.now())
		parent.AddReply(reply)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CommentCreated(replyKind)
	s.publish(ctx, rabbitmq.REPLY_CREATED_KEY, dto.MQCommentCreatedMsg{
		PostID:       post.ID,
		PostAuthorID: post.AuthorID,
		CommentID:    reply.ID,
		ParentID:     &commentID,
		UserID:       actor.ID,
		CreatedAt:    reply.CreatedAt,
	})

	return reply, nil
}

// Delete removes a comment together with its replies. Only the post author
// moderates comments, regardless of who wrote them.
func (s *commentService) Delete(ctx context.Context, actor *model.User, postID, commentID bson.ObjectID) error {
	_, err := s.mutatePost(ctx, postID, func(post *model.Post) error {
		if !post.IsAuthor(actor.ID) {
			return ErrNotPostAuthor
		}
		if !post.RemoveComment(commentID) {
			return ErrCommentNotFound
		}
		return nil
	})
	return err
}

// DeleteReply follows the same ownership rule as Delete: the post author, not
// the reply author, may remove it.
func (s *commentService) DeleteReply(ctx context.Context, actor *model.User, postID, commentID, replyID bson.ObjectID) error {
	_, err := s.mutatePost(ctx, postID, func(post *model.Post) error {
		if !post.IsAuthor(actor.ID) {
			return ErrNotPostAuthor
		}
		parent := post.Comment(commentID)
		if parent == nil {
			return ErrCommentNotFound
		}
		if !parent.RemoveReply(replyID) {
			return ErrReplyNotFound
		}
		return nil
	})
	return err
}

// FindAll flattens every comment and reply of every post, newest first.
func (s *commentService) FindAll(ctx context.Context) ([]*dto.AdminComment, error) {
	posts, err := s.repo.Article.FindAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts: %s", err.Error())
		return nil, ErrInternal
	}

	result := []*dto.AdminComment{}
	for _, p := range posts {
		for _, c := range p.Comments {
			result = append(result, &dto.AdminComment{
				ID:           c.ID,
				Content:      c.Content,
				AuthorID:     c.AuthorID,
				AuthorName:   c.AuthorName,
				AuthorAvatar: c.AuthorAvatar,
				CreatedAt:    c.CreatedAt,
				Likes:        c.Likes,
				PostID:       p.ID,
				PostTitle:    p.Title,
			})
			for _, r := range c.Replies {
				parentID := c.ID
				result = append(result, &dto.AdminComment{
					ID:           r.ID,
					Content:      r.Content,
					AuthorID:     r.AuthorID,
					AuthorName:   r.AuthorName,
					AuthorAvatar: r.AuthorAvatar,
					CreatedAt:    r.CreatedAt,
					Likes:        r.Likes,
					PostID:       p.ID,
					PostTitle:    p.Title,
					ParentID:     &parentID,
				})
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}
