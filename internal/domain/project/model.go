package project

import "time"

// Project is a named scope of vault content with its own cached context
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	VaultFolder string     `json:"vault_folder"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastBuiltAt *time.Time `json:"last_built_at,omitempty"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	VaultFolder   string     `json:"vault_folder"`
	Description   string     `json:"description,omitempty"`
	CachedEntries int        `json:"cached_entries"`
	OpenChats     int        `json:"open_chats"`
	CreatedAt     time.Time  `json:"created_at"`
	LastBuiltAt   *time.Time `json:"last_built_at,omitempty"`
}
