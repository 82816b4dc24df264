package handlers

import (
	"github.com/gin-gonic/gin"

	"blog-api/internal/application"
	"blog-api/internal/domain/entity"
)

// JSON shapes shared by the handlers in this package.

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"email":        u.Email,
		"username":     u.Username,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"full_name":    u.FullName(),
		"is_active":    u.IsActive,
		"is_staff":     u.IsStaff,
		"is_superuser": u.IsSuperuser,
		"date_joined":  u.DateJoined,
	}
}

// publicUserJSON omits account fields that are nobody's business.
func publicUserJSON(u *entity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"full_name":   u.FullName(),
		"date_joined": u.DateJoined,
	}
}

func profileJSON(u *entity.User, p *entity.Profile) gin.H {
	return gin.H{
		"id":         p.ID,
		"user":       userJSON(u),
		"bio":        p.Bio,
		"avatar_url": p.AvatarURL,
		"phone":      p.Phone,
		"location":   p.Location,
		"website":    p.Website,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

func tokensJSON(pair application.TokenPair) gin.H {
	return gin.H{
		"access":             pair.AccessToken,
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh":            pair.RefreshToken,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}
}

func categoryJSON(v application.CategoryView) gin.H {
	c := v.Category
	return gin.H{
		"id":          c.ID,
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"posts_count": v.PostsCount,
		"created_at":  c.CreatedAt,
	}
}

func postListJSON(v application.PostView) gin.H {
	p := v.Post
	out := gin.H{
		"id":             p.ID,
		"title":          p.Title,
		"slug":           p.Slug,
		"author":         publicUserJSON(v.Author),
		"category":       nil,
		"excerpt":        p.Excerpt,
		"image_url":      p.ImageURL,
		"status":         p.Status,
		"views_count":    p.ViewsCount,
		"comments_count": v.CommentsCount,
		"created_at":     p.CreatedAt,
		"published_at":   p.PublishedAt,
	}
	if v.Category != nil {
		out["category"] = categoryRefJSON(v.Category)
	}
	return out
}

// categoryRefJSON is the embedded category shape on posts. It carries
// no posts_count; that figure belongs to the category endpoints, which
// actually load it.
func categoryRefJSON(c *entity.Category) gin.H {
	return gin.H{
		"id":   c.ID,
		"name": c.Name,
		"slug": c.Slug,
	}
}

func postDetailJSON(v application.PostView, comments []*application.CommentNode) gin.H {
	out := postListJSON(v)
	out["content"] = v.Post.Content
	out["updated_at"] = v.Post.UpdatedAt
	out["comments"] = commentsJSON(comments)
	return out
}

func commentsJSON(nodes []*application.CommentNode) []gin.H {
	out := make([]gin.H, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, commentNodeJSON(n))
	}
	return out
}

func commentNodeJSON(n *application.CommentNode) gin.H {
	c := n.Comment
	return gin.H{
		"id":            c.ID,
		"post":          c.PostID,
		"author":        publicUserJSON(n.Author),
		"content":       c.Content,
		"parent":        c.ParentID,
		"replies":       commentsJSON(n.Replies),
		"replies_count": len(n.Replies),
		"is_approved":   c.IsApproved,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
	}
}

func commentJSON(c *entity.Comment) gin.H {
	return gin.H{
		"id":          c.ID,
		"post":        c.PostID,
		"author":      c.AuthorID,
		"content":     c.Content,
		"parent":      c.ParentID,
		"is_approved": c.IsApproved,
		"created_at":  c.CreatedAt,
		"updated_at":  c.UpdatedAt,
	}
}
