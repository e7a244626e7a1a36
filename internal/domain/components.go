package domain

// HealthComponent - здоровье живой сущности
type HealthComponent struct {
	HP           float64 `json:"hp"`
	MaxHP        float64 `json:"maxHp"`
	IsDead       bool    `json:"isDead"`
	HurtCooldown int     `json:"-"` // Тики неуязвимости после удара
	DeathTicks   int     `json:"-"` // Сколько тиков тело лежит после смерти
}

// CombatComponent - боевые атрибуты
type CombatComponent struct {
	AttackDamage     float64 `json:"attackDamage"`
	InteractionRange float64 `json:"interactionRange"`
	FollowRange      float64 `json:"followRange"`
	SwingTicks       int     `json:"-"` // Сколько тиков еще идет анимация взмаха
}

// PhysicsComponent - состояние относительно среды
type PhysicsComponent struct {
	OnGround bool `json:"onGround"`
	InWater  bool `json:"inWater"`
}

// PlayerComponent - признаки живого игрока
type PlayerComponent struct {
	GameMode GameMode `json:"gameMode"`
}

// NavigationComponent - текущий маршрут агента
type NavigationComponent struct {
	Path   []BlockPos `json:"-"`
	Index  int        `json:"-"`
	Target Vec3       `json:"target"`
	Speed  float64    `json:"speed"`
}

// InProgress - есть ли еще непройденные узлы маршрута
func (n *NavigationComponent) InProgress() bool {
	return n != nil && n.Index < len(n.Path)
}

// Reset сбрасывает маршрут
func (n *NavigationComponent) Reset() {
	n.Path = nil
	n.Index = 0
}

// AgentComponent - состояние управляемого аватара
type AgentComponent struct {
	Model      string              `json:"model"`
	MoveSpeed  float64             `json:"moveSpeed"`
	Nav        NavigationComponent `json:"nav"`
	LookTarget *Entity             `json:"-"`
	LookBlock  *BlockPos           `json:"lookBlock,omitempty"`
}

// ClearLook сбрасывает обе цели взгляда
func (a *AgentComponent) ClearLook() {
	a.LookTarget = nil
	a.LookBlock = nil
}
