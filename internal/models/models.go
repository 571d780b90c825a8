package models

import "time"

// Account represents a realmd login account
type Account struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     *string    `json:"email"`
	JoinDate  *time.Time `json:"joindate"`
	LastLogin *time.Time `json:"last_login"`
	Locked    int        `json:"locked"`
	GMLevel   int        `json:"gmlevel"`
	Expansion *int       `json:"expansion,omitempty"`
}

// Ban is a row of account_banned. Deleting an account inserts one of these.
type Ban struct {
	AccountID int    `json:"id"`
	BanDate   int64  `json:"bandate"`
	UnbanDate int64  `json:"unbandate"`
	BannedBy  string `json:"bannedby"`
	BanReason string `json:"banreason"`
	Active    bool   `json:"active"`
}

// CharacterSummary is a character as listed by the panel
type CharacterSummary struct {
	GUID      int     `json:"guid"`
	Name      string  `json:"name"`
	Race      int     `json:"race"`
	Class     int     `json:"class"`
	Level     int     `json:"level"`
	Money     int64   `json:"money"`
	TotalTime int64   `json:"totaltime"`
	Account   int     `json:"account"`
	Username  *string `json:"username"`
}

// AccountCharacter is the short character form shown on an account page
type AccountCharacter struct {
	GUID  int    `json:"guid"`
	Name  string `json:"name"`
	Race  int    `json:"race"`
	Class int    `json:"class"`
	Level int    `json:"level"`
}

// Item is an item_template search result. Field names follow the template
// columns because the frontend reads them verbatim.
type Item struct {
	Entry         int    `json:"entry"`
	Name          string `json:"name"`
	Quality       int    `json:"Quality"`
	ItemLevel     int    `json:"ItemLevel"`
	RequiredLevel int    `json:"RequiredLevel"`
	Class         int    `json:"class"`
}

// Quest is a quest_template search result
type Quest struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Level            int    `json:"level"`
	MinLevel         int    `json:"minLevel"`
	Type             int    `json:"type"`
	SuggestedPlayers int    `json:"suggestedPlayers"`
}

// Spell is a reference spell entry
type Spell struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Rank  string `json:"rank"`
	Level int    `json:"level"`
	Class string `json:"class"`
}

// Skill is a reference skill line
type Skill struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Faction is a reference reputation faction
type Faction struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Team string `json:"team"`
}

// CommandHelp is a row of the world command table
type CommandHelp struct {
	Name string `json:"name"`
	Help string `json:"help"`
}

// CommonCommand is a frequently used GM command with its syntax
type CommonCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Syntax      string `json:"syntax"`
}

// ServerStats is the dashboard summary
type ServerStats struct {
	Accounts      int              `json:"accounts"`
	Characters    int              `json:"characters"`
	AverageLevel  int              `json:"averageLevel"`
	MaxLevel      int              `json:"maxLevel"`
	OnlinePlayers int              `json:"onlinePlayers"`
	Realms        []map[string]any `json:"realms"`
	GeneratedAt   time.Time        `json:"generatedAt"`
}
