package models

import "time"

// ChatGroupMapping binds a messenger chat to a course group so report
// commands in that chat do not need to repeat the scope.
type ChatGroupMapping struct {
	Course          string    `json:"course"`
	GroupID         string    `json:"group_id"`
	Name            string    `json:"name"`
	Comment         string    `json:"comment"`
	AssociationTime time.Time `json:"association_time"`
	RegisteredBy    int64     `json:"registered_by"`
}
