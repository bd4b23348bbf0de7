package entity

const (
	TableAvailable = "AVAILABLE"
	TableInUse     = "IN_USE"
	TableCleaning  = "CLEANING"
)
