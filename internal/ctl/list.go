package ctl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02 15:04"

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every user with follower and article counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := apiClient().ListUsers()
		if err != nil {
			return err
		}
		renderUsers(cmd.OutOrStdout(), users)
		return nil
	},
}

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Inspect articles",
}

var articlesMine bool

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := apiClient()

		var (
			posts []*dto.PostResponse
			err   error
		)
		if articlesMine {
			posts, err = c.MyArticles()
		} else {
			posts, err = c.ListArticles()
		}
		if err != nil {
			return err
		}

		renderArticles(cmd.OutOrStdout(), posts)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)

	articlesListCmd.Flags().BoolVar(&articlesMine, "mine", false, "Only list articles written by the token's user")
	articlesCmd.AddCommand(articlesListCmd)
}

func renderUsers(w io.Writer, users []*dto.AdminUserResponse) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Email", "Role", "Followers", "Following", "Articles", "Joined"})
	table.SetAutoWrapText(false)

	for _, u := range users {
		table.Append([]string{
			u.ID.Hex(),
			u.Name,
			u.Email,
			string(u.Role),
			strconv.Itoa(u.FollowerCount),
			strconv.Itoa(u.FollowingCount),
			strconv.FormatInt(u.ArticleCount, 10),
			u.CreatedAt.Format(dateLayout),
		})
	}

	table.Render()
}

func renderArticles(w io.Writer, posts []*dto.PostResponse) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Author", "Tags", "Likes", "Comments", "Created"})
	table.SetAutoWrapText(false)

	for _, p := range posts {
		author := p.AuthorName
		if p.Author != nil && p.Author.Name != "" {
			author = p.Author.Name
		}

		table.Append([]string{
			p.ID.Hex(),
			p.Title,
			author,
			strings.Join(p.Tags, ", "),
			strconv.Itoa(len(p.Likes)),
			strconv.Itoa(countComments(p)),
			p.CreatedAt.Format(dateLayout),
		})
	}

	table.Render()
}

// countComments counts comments and their replies.
func countComments(p *dto.PostResponse) int {
	n := len(p.Comments)
	for _, c := range p.Comments {
		n += len(c.Replies)
	}
	return n
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
