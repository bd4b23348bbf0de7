package entity

const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleWaiter  = "WAITER"
	RoleChef    = "CHEF"
)
