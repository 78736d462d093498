package article

import "github.com/simp-lee/inkwell/internal/domain"

// ArticleRequest is the body of POST /api/v1/articles and PUT /api/v1/articles/:id.
// The service checks the same tags again after trimming the text and
// normalizing the topic, which is how form posts from the studio are validated.
type ArticleRequest struct {
	Title   string `json:"title" form:"title" binding:"required,max=200"`
	Summary string `json:"summary" form:"summary" binding:"max=500"`
	Body    string `json:"body" form:"body" binding:"required"`
	Topic   string `json:"topic" form:"topic" binding:"required,max=60"`
	Publish bool   `json:"publish" form:"publish"`
}

func requestFromInput(in domain.ArticleInput) ArticleRequest {
	return ArticleRequest{
		Title:   in.Title,
		Summary: in.Summary,
		Body:    in.Body,
		Topic:   in.Topic,
		Publish: in.Publish,
	}
}

func (r ArticleRequest) input() domain.ArticleInput {
	return domain.ArticleInput{
		Title:   r.Title,
		Summary: r.Summary,
		Body:    r.Body,
		Topic:   r.Topic,
		Publish: r.Publish,
	}
}
