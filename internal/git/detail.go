package git

import (
	"fmt"
	"log/slog"
)

// CommitDetail loads the full message, author contact, parent ids and line
// statistics of one commit. Statistics are computed against the first parent;
// a root commit is compared with the empty tree.
func (s *Service) CommitDetail(id string) (CommitDetail, error) {
	c, err := s.commit(id)
	if err != nil {
		return CommitDetail{}, err
	}
	hash := c.Hash.String()
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()[:minShortLen]
	}
	d := CommitDetail{
		ID:           hash,
		Summary:      summary(c.Message),
		Body:         body(c.Message),
		AuthorName:   authorName(c.Author),
		AuthorEmail:  c.Author.Email,
		When:         c.Author.When,
		RelativeTime: relativeTime(c.Author.When, s.now()),
		ParentIDs:    parents,
	}
	stats, err := c.Stats()
	if err != nil {
		slog.Debug("commit stats unavailable", slog.String("commit", hash), slog.Any("error", err))
		return d, nil
	}
	d.FilesChanged = len(stats)
	for _, st := range stats {
		d.Insertions += st.Addition
		d.Deletions += st.Deletion
	}
	return d, nil
}

// StatLine formats the change counts the way git's shortstat does.
func (d CommitDetail) StatLine() string {
	return fmt.Sprintf("%d %s changed, %d %s(+), %d %s(-)",
		d.FilesChanged, plural(d.FilesChanged, "file", "files"),
		d.Insertions, plural(d.Insertions, "insertion", "insertions"),
		d.Deletions, plural(d.Deletions, "deletion", "deletions"),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
