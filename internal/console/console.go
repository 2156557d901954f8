// Package console is the interactive menu front end. It owns all text
// parsing and rendering and calls the core services with validated values.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"parana-shopper/internal/apperror"
	"parana-shopper/internal/basket"
	"parana-shopper/internal/catalog"
	"parana-shopper/internal/clock"
	"parana-shopper/internal/input"
	"parana-shopper/internal/logger"
	"parana-shopper/internal/order"
	"parana-shopper/internal/shopper"

	"go.uber.org/zap"
)

// ErrLoginFailed ends the session: an unknown shopper cannot continue.
var ErrLoginFailed = errors.New("login failed")

const menu = `
    PARANÁ – SHOPPER MAIN MENU

    1. Display your order history
    2. Add an item to your basket
    3. View your basket
    4. Change the quantity of an item in your basket
    5. Remove an item from your basket
    6. Checkout
    7. Exit
`

const (
	choiceHistory = iota + 1
	choiceAdd
	choiceView
	choiceChange
	choiceRemove
	choiceCheckout
	choiceExit
)

type Deps struct {
	Clock    clock.Clock
	Shoppers shopper.Service
	Catalog  catalog.Service
	Baskets  basket.Service
	Orders   order.Service
}

type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	deps Deps

	shopper *shopper.Shopper
}

func New(in io.Reader, out io.Writer, deps Deps) *Console {
	return &Console{
		in:   bufio.NewScanner(in),
		out:  out,
		deps: deps,
	}
}

// Run logs the shopper in and serves the main menu until Exit or end of input.
func (c *Console) Run(ctx context.Context) error {
	if err := c.login(ctx); err != nil {
		return err
	}

	for {
		c.printf("%s", menu)
		raw, err := c.prompt("Enter your choice (1–7): ")
		if err != nil {
			return nil
		}

		choice, err := input.ParseChoice(raw, choiceExit)
		if err != nil {
			c.printf("\nInvalid option. Please enter a number 1–7.\n")
			continue
		}

		if choice == choiceExit {
			c.printf("Goodbye!\n")
			return nil
		}

		if err := c.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			c.report(ctx, err)
		}
	}
}

func (c *Console) dispatch(ctx context.Context, choice int) error {
	switch choice {
	case choiceHistory:
		return c.showHistory(ctx)
	case choiceAdd:
		return c.addItem(ctx)
	case choiceView:
		return c.viewBasket(ctx)
	case choiceChange:
		return c.changeQuantity(ctx)
	case choiceRemove:
		return c.removeItem(ctx)
	case choiceCheckout:
		return c.checkout(ctx)
	}
	return nil
}

func (c *Console) login(ctx context.Context) error {
	raw, err := c.prompt("Please enter your Shopper ID: ")
	if err != nil {
		return ErrLoginFailed
	}

	id, err := input.ParseID(raw)
	if err != nil {
		c.printf("\nError: Shopper ID not found. Exiting...\n\n")
		return ErrLoginFailed
	}

	s, err := c.deps.Shoppers.Login(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			c.printf("\nError: Shopper ID not found. Exiting...\n\n")
		} else {
			c.printf("\nError: unable to log in right now. Exiting...\n\n")
		}
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	c.shopper = s
	c.printf("\nWelcome, %s!\n\n", s.DisplayName())
	return nil
}

// today is read once per menu action and passed to every core call it makes.
func (c *Console) today() time.Time {
	return clock.Today(c.deps.Clock)
}

func (c *Console) report(ctx context.Context, err error) {
	switch apperror.Kind(err) {
	case apperror.ErrNotFound, apperror.ErrInvalidInput, apperror.ErrEmptyState:
		c.printf("\n%s.\n\n", capitalize(err.Error()))
	default:
		logger.FromCtx(ctx).Error("menu action failed", zap.Error(err))
		c.printf("\nSomething went wrong, please try again later.\n\n")
	}
}

func (c *Console) prompt(label string) (string, error) {
	c.printf("%s", label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

// selectOption lists labels numbered from 1 and re-prompts until a valid
// number is entered. It returns the zero-based index.
func (c *Console) selectOption(title, kind string, labels []string) (int, error) {
	c.printf("\n %s \n\n", title)
	for i, l := range labels {
		c.printf("%d. %s\n", i+1, l)
	}

	for {
		raw, err := c.prompt("Enter the number against the " + kind + " you want to choose: ")
		if err != nil {
			return 0, err
		}
		n, err := input.ParseChoice(raw, len(labels))
		if err != nil {
			c.printf("Please enter a valid number.\n")
			continue
		}
		return n - 1, nil
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
