package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/render"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/bridge"
	chatService "github.com/zhouzirui/adeslas-assistant/backend/internal/service/chat"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/comparison"
	"github.com/zhouzirui/adeslas-assistant/backend/internal/service/selection"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List catalog products, optionally filtered by category",
	RunE:  runProducts,
}

var compareCmd = &cobra.Command{
	Use:   "compare <id> <id> [id...]",
	Short: "Show a side-by-side comparison of two or more products",
	Args:  cobra.MinimumNArgs(selection.MinCompare),
	RunE:  runCompare,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a question, or about one product with --product",
	RunE:  runAsk,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the persisted conversation",
	RunE:  runHistory,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the conversation to the greeting",
	RunE:  runClear,
}

var (
	categoryFlag string
	productFlag  string
	rawFlag      bool
)

func init() {
	productsCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Category name or label (Dental, Ambulatorio, Hospitalario, MyBox, Empresa)")
	askCmd.Flags().StringVarP(&productFlag, "product", "p", "", "Ask the standard question about this product id")
	askCmd.Flags().BoolVar(&rawFlag, "raw", false, "Stream raw text as it arrives instead of rendering the final answer")
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func runProducts(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if categoryFlag != "" {
		category, ok := catalog.ParseCategory(categoryFlag)
		if !ok {
			return fmt.Errorf("unknown category %q", categoryFlag)
		}
		if err := a.Selection.SetCategoryFilter(&category); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, p := range a.Selection.Visible() {
		fmt.Fprintf(out, "%s  %s\n", headingStyle.Render(p.Name), mutedStyle.Render("["+p.ID+"] "+p.Category.Label()))
		if p.StrongPoint != "" {
			fmt.Fprintf(out, "  %s\n", p.StrongPoint)
		}
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, id := range args {
		if _, err := a.Selection.ToggleCompare(id); err != nil {
			return err
		}
	}
	if !a.Selection.CanCompare() {
		return fmt.Errorf("select at least %d distinct products", selection.MinCompare)
	}

	fmt.Fprintln(cmd.OutOrStdout(), render.ComparisonTable(comparison.Build(a.Catalog, a.Selection.CompareIDs())))
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" && productFlag == "" {
		return errors.New("provide a question or --product")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	_, events, unsubscribe := a.Hub.Subscribe()
	defer unsubscribe()

	if productFlag != "" {
		product, ok := a.Catalog.FindByID(productFlag)
		if !ok {
			return fmt.Errorf("unknown product %q", productFlag)
		}
		question = bridge.ProductPrompt(product.Name)
	}

	submitted := make(chan error, 1)
	runCtx, stopBridge := context.WithCancel(ctx)
	defer stopBridge()
	go a.Bridge.Run(runCtx, func(ctx context.Context, text string) error {
		err := a.Coordinator.Submit(ctx, text)
		submitted <- err
		return err
	})
	a.Bridge.SetPending(question)

	select {
	case err := <-submitted:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	out := cmd.OutOrStdout()
	if err := follow(ctx, events, out); err != nil {
		return err
	}

	msgs := a.Session.Messages()
	last := msgs[len(msgs)-1]
	if rawFlag {
		fmt.Fprintln(out)
		printSources(out, last.Sources)
		return nil
	}
	term, err := render.NewTerminal(width, style)
	if err != nil {
		return err
	}
	rendered, err := term.Message(last)
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}

// follow consumes session events until loading ends. With --raw, newly
// streamed text is written as it arrives.
func follow(ctx context.Context, events <-chan chatService.Event, out io.Writer) error {
	printed := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Type {
			case chatService.EventStatus:
				if !ev.Loading {
					return nil
				}
			case chatService.EventTranscript:
				if !rawFlag || len(ev.Messages) == 0 {
					continue
				}
				last := ev.Messages[len(ev.Messages)-1]
				if last.Sender != chat.SenderAssistant || len(last.Text) < printed {
					continue
				}
				fmt.Fprint(out, last.Text[printed:])
				printed = len(last.Text)
			}
		}
	}
}

func printSources(out io.Writer, sources []chat.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(out, mutedStyle.Render("Fuentes:"))
	for _, s := range sources {
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("  - %s (%s)", s.Title, s.URI)))
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	term, err := render.NewTerminal(width, style)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, msg := range a.Session.Messages() {
		rendered, err := term.Message(msg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rendered)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Coordinator.Clear(ctx); err != nil {
		if errors.Is(err, chatService.ErrNothingToClear) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clear.")
			return nil
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Conversation cleared.")
	return nil
}
