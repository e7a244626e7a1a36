package console

import (
	"avatar-server/internal/engine/handlers"
	"avatar-server/pkg/api"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrEmptyLine = errors.New("console: empty line")

// Command - разобранная строка консоли
type Command struct {
	Method string
	Params handlers.Params
	// TargetRef - UUID или имя сущности; имя превращается в UUID уже в потоке симуляции
	TargetRef string
	// Help - строка была "help", вызывать реестр не нужно
	Help bool
}

// Usage - подсказка по командам
const Usage = `commands:
  spawn <name> [x y z]
  dismiss [name]
  moveto <name> <x> <y> <z>
  stop <name>
  lookat <name> clear|<target>
  attack <name> <target>
  chat <name> <message...>
  model <name> clear|<folder>
  status <name>
  list
  help
<target> is an entity UUID or name`

// Parse превращает строку в вызов метода. Синтаксис ошибок тут, а не в реестре:
// реестр получает только полностью собранные параметры.
func Parse(line string) (Command, error) {
	args, err := splitArgs(line)
	if err != nil {
		return Command{}, err
	}
	if len(args) == 0 {
		return Command{}, ErrEmptyLine
	}

	verb, rest := strings.ToLower(args[0]), args[1:]
	switch verb {
	case "help", "?":
		return Command{Help: true}, nil

	case "spawn":
		if len(rest) != 1 && len(rest) != 4 {
			return Command{}, usageError("spawn <name> [x y z]")
		}
		params := handlers.Params{"name": rest[0]}
		if len(rest) == 4 {
			if err := putCoords(params, rest[1:]); err != nil {
				return Command{}, err
			}
		}
		return Command{Method: api.MethodSpawn, Params: params}, nil

	case "dismiss":
		switch len(rest) {
		case 0:
			return Command{Method: api.MethodDismiss, Params: handlers.Params{}}, nil
		case 1:
			return Command{Method: api.MethodDismiss, Params: handlers.Params{"agent": rest[0]}}, nil
		default:
			return Command{}, usageError("dismiss [name]")
		}

	case "moveto":
		if len(rest) != 4 {
			return Command{}, usageError("moveto <name> <x> <y> <z>")
		}
		params := handlers.Params{"agent": rest[0]}
		if err := putCoords(params, rest[1:]); err != nil {
			return Command{}, err
		}
		return Command{Method: api.MethodMoveTo, Params: params}, nil

	case "stop":
		if len(rest) != 1 {
			return Command{}, usageError("stop <name>")
		}
		return Command{Method: api.MethodStop, Params: handlers.Params{"agent": rest[0]}}, nil

	case "lookat":
		if len(rest) != 2 {
			return Command{}, usageError("lookat <name> clear|<target>")
		}
		if strings.EqualFold(rest[1], "clear") {
			return Command{Method: api.MethodLookClear, Params: handlers.Params{"agent": rest[0]}}, nil
		}
		return Command{Method: api.MethodLookAt, Params: handlers.Params{"agent": rest[0]}, TargetRef: rest[1]}, nil

	case "attack":
		if len(rest) != 2 {
			return Command{}, usageError("attack <name> <target>")
		}
		return Command{Method: api.MethodAttack, Params: handlers.Params{"agent": rest[0]}, TargetRef: rest[1]}, nil

	case "chat":
		if len(rest) < 2 {
			return Command{}, usageError("chat <name> <message...>")
		}
		return Command{Method: api.MethodChat, Params: handlers.Params{
			"agent":   rest[0],
			"message": strings.Join(rest[1:], " "),
		}}, nil

	case "model":
		if len(rest) != 2 {
			return Command{}, usageError("model <name> clear|<folder>")
		}
		params := handlers.Params{"agent": rest[0]}
		if !strings.EqualFold(rest[1], "clear") {
			params["modelFolder"] = rest[1]
		}
		return Command{Method: api.MethodSetModel, Params: params}, nil

	case "status":
		if len(rest) != 1 {
			return Command{}, usageError("status <name>")
		}
		return Command{Method: api.MethodPerceptionSelf, Params: handlers.Params{"agent": rest[0]}}, nil

	case "list":
		return Command{Method: api.MethodPerceptionAgents, Params: handlers.Params{}}, nil

	default:
		return Command{}, fmt.Errorf("unknown command %q (try 'help')", verb)
	}
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

// putCoords кладет x, y, z числами, как их прислал бы сетевой клиент
func putCoords(params handlers.Params, raw []string) error {
	keys := [...]string{"x", "y", "z"}
	for i, key := range keys {
		v, err := strconv.ParseFloat(raw[i], 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, raw[i])
		}
		params[key] = v
	}
	return nil
}

// splitArgs делит строку по пробелам, учитывая кавычки: spawn "Big Bob"
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quote")
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}
