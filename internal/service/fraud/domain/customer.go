package domain

import "time"

// Customer 是已注册的顾客账号。
type Customer struct {
	ID        string
	Firstname string
	Lastname  string
	Email     string
	CreatedAt time.Time
}
