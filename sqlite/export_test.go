package sqlite

// CheckDeleted exports checkDeleted for testing.
var CheckDeleted = checkDeleted
