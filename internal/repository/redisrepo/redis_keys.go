package redisrepo

import "fmt"

const (
	POST_KEY         = "post:%s"         // <postID>
	ALL_POSTS_KEY    = "posts:all"
	AUTHOR_POSTS_KEY = "posts:author:%s" // <authorID>
	USER_KEY         = "user:%s"         // <userID>
)

func PostKey(postID string) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func AllPostsKey() string {
	return ALL_POSTS_KEY
}

func AuthorPostsKey(authorID string) string {
	return fmt.Sprintf(AUTHOR_POSTS_KEY, authorID)
}

func UserKey(userID string) string {
	return fmt.Sprintf(USER_KEY, userID)
}
