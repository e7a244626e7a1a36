package api

// --- СЛУЖЕБНЫЕ ОТВЕТЫ (HTTP /debug) ---

// AgentView - агент глазами оператора
type AgentView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Region     string   `json:"region"`
	Model      string   `json:"model,omitempty"`
	Pos        PosView  `json:"pos"`
	Health     float64  `json:"health"`
	MaxHealth  float64  `json:"maxHealth"`
	Alive      bool     `json:"alive"`
	Navigating bool     `json:"navigating"`
	LookTarget string   `json:"lookTarget,omitempty"`
	LookBlock  *PosView `json:"lookBlock,omitempty"`
}

type PosView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// WorldView - сводка по миру
type WorldView struct {
	Tick       int64       `json:"tick"`
	Difficulty string      `json:"difficulty"`
	Regions    []string    `json:"regions"`
	Agents     []AgentView `json:"agents"`
}

// SessionView - одно подключение клиента
type SessionView struct {
	ID            string `json:"id"`
	Transport     string `json:"transport"`
	Remote        string `json:"remote"`
	Authenticated bool   `json:"authenticated"`
	ConnectedAt   int64  `json:"connectedAt"`
	Requests      int64  `json:"requests"`
}

// ChatLine - строка чата для /debug/chat
type ChatLine struct {
	Tick      int64  `json:"tick"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
