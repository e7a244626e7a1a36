package main

import (
	"avatar-server/internal/agent"
	"avatar-server/internal/domain"
	"avatar-server/internal/engine/handlers"
	"avatar-server/internal/network"
	"avatar-server/pkg/api"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// =============================================================================
// call
// =============================================================================

func buildCallCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [key=value ...]",
		Short: "Call any registered method and print the result envelope",
		Long: `Values are sent as numbers when they parse as numbers, as booleans for
true/false, otherwise as strings. Quote a value to force a string: name='"42"'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), flags, func(ctx context.Context, c *network.Client) error {
				res, err := c.Call(ctx, args[0], params)
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				if !res.Success() {
					return fmt.Errorf("%s failed", args[0])
				}
				return nil
			})
		},
	}
}

// parseAssignments превращает key=value в параметры запроса
func parseAssignments(args []string) (map[string]any, error) {
	params := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		params[key] = parseValue(raw)
	}
	return params, nil
}

func parseValue(raw string) any {
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw[1 : len(raw)-1]
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// =============================================================================
// agents
// =============================================================================

func buildAgentsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List agents in the world",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), flags, func(ctx context.Context, c *network.Client) error {
				res, err := c.Call(ctx, api.MethodPerceptionAgents, nil)
				if err != nil {
					return err
				}
				if !res.Success() {
					return fmt.Errorf("%s", res.Readable())
				}
				return printAgents(cmd.OutOrStdout(), res)
			})
		},
	}
}

func printAgents(out io.Writer, res handlers.Result) error {
	list, _ := res.Data()["agents"].([]any)
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "No agents.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUUID\tHEALTH\tALIVE")
	for _, item := range list {
		a, _ := item.(map[string]any)
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", a["name"], a["uuid"], a["health"], a["alive"])
	}
	return w.Flush()
}

// =============================================================================
// patrol
// =============================================================================

func buildPatrolCmd(flags *globalFlags) *cobra.Command {
	var laps int
	cmd := &cobra.Command{
		Use:   "patrol <agent> <x,y,z> [x,y,z ...]",
		Short: "Spawn an agent (or take over an existing one) and walk it between waypoints",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			waypoints := make([]domain.Vec3, 0, len(args)-1)
			for _, raw := range args[1:] {
				wp, err := parseWaypoint(raw)
				if err != nil {
					return err
				}
				waypoints = append(waypoints, wp)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := connect(ctx, flags)
			if err != nil {
				return err
			}
			defer c.Close()

			bot := agent.NewBot(args[0], c, waypoints)
			bot.MaxLaps = laps
			err = bot.Run(ctx)
			if ctx.Err() != nil {
				// Ctrl+C - штатная остановка патруля
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&laps, "laps", 0, "Number of laps (0 = until interrupted)")
	return cmd
}

func parseWaypoint(raw string) (domain.Vec3, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return domain.Vec3{}, fmt.Errorf("waypoint %q: expected x,y,z", raw)
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Vec3{}, fmt.Errorf("waypoint %q: %w", raw, err)
		}
		v[i] = f
	}
	return domain.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// =============================================================================
// helpers
// =============================================================================

// connect подключается и проходит auth; таймаут действует только на рукопожатие
func connect(ctx context.Context, flags *globalFlags) (*network.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, flags.timeout)
	defer cancel()

	c, err := network.Dial(dialCtx, flags.addr)
	if err != nil {
		return nil, err
	}
	if err := c.Auth(dialCtx, flags.token); err != nil {
		c.Close()
		return nil, fmt.Errorf("auth: %w", err)
	}
	return c, nil
}

func withClient(parent context.Context, flags *globalFlags, fn func(ctx context.Context, c *network.Client) error) error {
	if parent == nil {
		parent = context.Background()
	}
	c, err := connect(parent, flags)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(parent, flags.timeout)
	defer cancel()
	return fn(ctx, c)
}

func printJSON(out io.Writer, v any) error {
	raw, err := api.Encode(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = out.Write(buf.Bytes())
	return err
}
