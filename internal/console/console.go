package console

import (
	"avatar-server/internal/domain"
	"avatar-server/internal/engine"
	"avatar-server/internal/engine/handlers"
	"avatar-server/pkg/logger"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Source - имя источника вызова в логах реестра
const Source = "console"

// failurePrefix помечает ответ с ошибкой
const failurePrefix = "[avatar] "

// Executor - поток симуляции (engine.Service)
type Executor interface {
	Execute(t engine.Task) error
}

// Console - локальная консоль оператора. Строка разбирается в горутине чтения,
// а выполняется в потоке симуляции тем же реестром, что и сетевые вызовы.
type Console struct {
	registry *handlers.Registry
	exec     Executor
	out      io.Writer
	// Prompt печатает "> " перед каждой строкой (stdin - терминал)
	Prompt bool

	mu  sync.Mutex
	log *logrus.Entry
}

func New(registry *handlers.Registry, exec Executor, out io.Writer) *Console {
	return &Console{
		registry: registry,
		exec:     exec,
		out:      out,
		log:      logger.Log.WithField("component", "console"),
	}
}

// Do выполняет одну строку и ждет текст ответа
func (c *Console) Do(ctx context.Context, line string) (string, error) {
	cmd, err := Parse(line)
	switch {
	case errors.Is(err, ErrEmptyLine):
		return "", nil
	case err != nil:
		return failurePrefix + err.Error(), nil
	case cmd.Help:
		return Usage, nil
	}

	reply := make(chan string, 1)
	err = c.exec.Execute(func(world *domain.GameWorld) {
		reply <- c.Apply(world, cmd)
	})
	if err != nil {
		return "", err
	}

	select {
	case text := <-reply:
		return text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Apply выполняет команду. Вызывать только из потока симуляции.
func (c *Console) Apply(world *domain.GameWorld, cmd Command) string {
	params := cmd.Params
	if cmd.TargetRef != "" {
		params["target"] = resolveTargetRef(world, cmd.TargetRef)
	}

	result := c.registry.Dispatch(cmd.Method, handlers.NewContext(world, Source), params)
	if !result.Success() {
		return failurePrefix + result.Readable()
	}
	return result.Readable()
}

// Run читает строки до EOF или отмены ctx. EOF - нормальное завершение.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			text, err := c.Do(ctx, line)
			if err != nil {
				c.log.WithError(err).Warn("Console command not executed")
				return err
			}
			if text != "" {
				c.println(text)
			}
			c.prompt()
		}
	}
}

func (c *Console) println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

func (c *Console) prompt() {
	if !c.Prompt {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, "> ")
}

// resolveTargetRef: UUID оставляем как есть, иначе ищем сущность по имени.
// Не нашли - отдаем строку реестру, он ответит TARGET_NOT_FOUND.
func resolveTargetRef(world *domain.GameWorld, ref string) string {
	if _, ok := domain.ParseID(ref); ok {
		return ref
	}
	for _, region := range world.Regions {
		for _, e := range region.Entities {
			if strings.EqualFold(e.Name, ref) {
				return e.ID.String()
			}
		}
	}
	return ref
}
