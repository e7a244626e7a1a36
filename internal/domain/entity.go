package domain

import "github.com/google/uuid"

// Entity - любая сущность в мире. Поведение задается набором компонентов:
// агент = Health + Combat + Physics + Agent, игрок = Health + Physics + Player.
type Entity struct {
	ID     uuid.UUID  `json:"id"`
	Kind   EntityKind `json:"kind"`
	Name   string     `json:"name"`
	Region string     `json:"region"`

	Pos   Vec3    `json:"pos"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`

	TickCount int64 `json:"-"`
	Removed   bool  `json:"-"`

	// --- Компоненты ---
	Health  *HealthComponent  `json:"health,omitempty"`
	Combat  *CombatComponent  `json:"combat,omitempty"`
	Physics *PhysicsComponent `json:"physics,omitempty"`
	Player  *PlayerComponent  `json:"player,omitempty"`
	Agent   *AgentComponent   `json:"agent,omitempty"`
}

// Attributes - стартовые атрибуты нового агента
type Attributes struct {
	MaxHealth        float64 `yaml:"max_health"`
	MoveSpeed        float64 `yaml:"movement_speed"`
	AttackDamage     float64 `yaml:"attack_damage"`
	InteractionRange float64 `yaml:"interaction_range"`
	FollowRange      float64 `yaml:"follow_range"`
}

func DefaultAttributes() Attributes {
	return Attributes{
		MaxHealth:        DefaultMaxHealth,
		MoveSpeed:        DefaultMoveSpeed,
		AttackDamage:     DefaultAttackDamage,
		InteractionRange: DefaultInteractionRange,
		FollowRange:      DefaultFollowRange,
	}
}

// NewAgent собирает агента с полным здоровьем
func NewAgent(name string, pos Vec3, attrs Attributes) *Entity {
	if name == "" {
		name = DefaultAgentName
	}
	return &Entity{
		ID:      NewID(),
		Kind:    KindAgent,
		Name:    name,
		Pos:     pos,
		Health:  &HealthComponent{HP: attrs.MaxHealth, MaxHP: attrs.MaxHealth},
		Physics: &PhysicsComponent{},
		Combat: &CombatComponent{
			AttackDamage:     attrs.AttackDamage,
			InteractionRange: attrs.InteractionRange,
			FollowRange:      attrs.FollowRange,
		},
		Agent: &AgentComponent{MoveSpeed: attrs.MoveSpeed},
	}
}

// NewPlayer - живой игрок с заданным режимом
func NewPlayer(name string, pos Vec3, mode GameMode) *Entity {
	return &Entity{
		ID:      NewID(),
		Kind:    KindPlayer,
		Name:    name,
		Pos:     pos,
		Health:  &HealthComponent{HP: DefaultMaxHealth, MaxHP: DefaultMaxHealth},
		Physics: &PhysicsComponent{},
		Player:  &PlayerComponent{GameMode: mode},
	}
}

// NewMob - простое живое существо
func NewMob(name string, pos Vec3, maxHP float64) *Entity {
	return &Entity{
		ID:      NewID(),
		Kind:    KindMob,
		Name:    name,
		Pos:     pos,
		Health:  &HealthComponent{HP: maxHP, MaxHP: maxHP},
		Physics: &PhysicsComponent{},
	}
}

// NewItem - неживой объект
func NewItem(name string, pos Vec3) *Entity {
	return &Entity{
		ID:   NewID(),
		Kind: KindItem,
		Name: name,
		Pos:  pos,
	}
}

// IsLiving - есть ли у сущности здоровье
func (e *Entity) IsLiving() bool {
	return e.Health != nil
}

// IsAlive - сущность в мире и (если живая) не мертва
func (e *Entity) IsAlive() bool {
	if e.Removed {
		return false
	}
	if e.Health == nil {
		return true
	}
	return !e.Health.IsDead && e.Health.HP > 0
}

func (e *Entity) IsAgent() bool  { return e.Agent != nil }
func (e *Entity) IsPlayer() bool { return e.Player != nil }

// EyePos - точка, откуда сущность смотрит
func (e *Entity) EyePos() Vec3 {
	return e.Pos.Add(0, EyeHeight, 0)
}

// MaxHealth возвращает 0 для неживых
func (e *Entity) MaxHealth() float64 {
	if e.Health == nil {
		return 0
	}
	return e.Health.MaxHP
}

// CurrentHealth возвращает 0 для неживых
func (e *Entity) CurrentHealth() float64 {
	if e.Health == nil {
		return 0
	}
	return e.Health.HP
}
