package model

import "time"

// User 用户账户
// 密码哈希不对外序列化；Google 登录用户 HashedPassword 为空
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Token 登录令牌响应
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
