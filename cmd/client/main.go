// Command bullscows-client is the interactive text client.
//
// It connects to the server's UDP gateway, asks for a player name once,
// and offers a menu: create a game, join by name, auto-find a game,
// list active games, leave, or quit. Inside a game it loops reading
// 4-digit guesses until the game is won or the player backs out.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rkotov/bullscows/game/engine"
	"github.com/rkotov/bullscows/protocol"
)

func main() {
	cmd := &cli.Command{
		Name:  "bullscows-client",
		Usage: "interactive bulls and cows client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "127.0.0.1:5555",
				Usage:   "server UDP address",
				Sources: cli.EnvVars("BC_SERVER"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Second,
				Usage: "per-request reply timeout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return play(cmd.String("server"), cmd.Duration("timeout"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// client is one UDP conversation with the server.
type client struct {
	conn    *net.UDPConn
	timeout time.Duration
	stdin   *bufio.Reader
	player  string
}

func play(server string, timeout time.Duration) error {
	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", server, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", server, err)
	}
	defer conn.Close()

	c := &client{conn: conn, timeout: timeout, stdin: bufio.NewReader(os.Stdin)}

	fmt.Println("========================================")
	fmt.Println("        Bulls and Cows client")
	fmt.Println("========================================")

	c.player = c.prompt("\nYour name: ")
	if c.player == "" {
		c.player = "Player"
	}
	fmt.Printf("Welcome, %s!\n", c.player)

	for {
		fmt.Println("\n========================================")
		fmt.Println("1. Create a new game")
		fmt.Println("2. Join a game by name")
		fmt.Println("3. Find an available game")
		fmt.Println("4. List active games")
		fmt.Println("5. Quit")
		fmt.Println("========================================")

		switch c.prompt("Choose an action: ") {
		case "1":
			c.createGame()
		case "2":
			c.joinGame()
		case "3":
			c.findGame()
		case "4":
			c.listGames()
		case "5":
			fmt.Println("\nGoodbye!")
			return nil
		default:
			fmt.Println("Invalid choice")
		}
	}
}

// roundTrip sends one request envelope and waits for the reply.
func (c *client) roundTrip(req *protocol.Message) (*protocol.Message, error) {
	if _, err := c.conn.Write(protocol.Encode(req)); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	buf := make([]byte, protocol.FrameSize+1)
	c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	n, err := c.conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("no reply from server: %w", err)
	}
	return protocol.Decode(buf[:n])
}

func (c *client) prompt(label string) string {
	fmt.Print(label)
	line, err := c.stdin.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (c *client) createGame() {
	name := c.prompt("\nGame name: ")
	count, err := strconv.Atoi(c.prompt(fmt.Sprintf("Max players (1-%d): ", engine.MaxPlayers)))
	if err != nil || engine.ValidatePlayerCount(count) != nil {
		fmt.Printf("Player count must be between 1 and %d\n", engine.MaxPlayers)
		return
	}

	resp, err := c.roundTrip(&protocol.Message{
		Tag:        protocol.TagCreateGame,
		GameName:   name,
		PlayerName: c.player,
		MaxPlayers: count,
	})
	if !c.ok(resp, err) {
		return
	}

	fmt.Printf("\nGame %q created, players %d/%d\n", resp.GameName, resp.PlayerCount, resp.MaxPlayers)
	c.playGame(resp.GameName)
}

func (c *client) joinGame() {
	name := c.prompt("\nGame name: ")

	resp, err := c.roundTrip(&protocol.Message{
		Tag:        protocol.TagJoinGame,
		GameName:   name,
		PlayerName: c.player,
	})
	if !c.ok(resp, err) {
		return
	}

	fmt.Printf("\nJoined %q, players %d/%d\n", resp.GameName, resp.PlayerCount, resp.MaxPlayers)
	c.playGame(resp.GameName)
}

func (c *client) findGame() {
	fmt.Println("\nLooking for an open game...")

	resp, err := c.roundTrip(&protocol.Message{
		Tag:        protocol.TagFindGame,
		PlayerName: c.player,
	})
	if !c.ok(resp, err) {
		return
	}

	fmt.Printf("\nFound %q, players %d/%d\n", resp.GameName, resp.PlayerCount, resp.MaxPlayers)
	c.playGame(resp.GameName)
}

func (c *client) listGames() {
	resp, err := c.roundTrip(&protocol.Message{Tag: protocol.TagListGames})
	if !c.ok(resp, err) {
		return
	}
	fmt.Printf("\nActive games on the server: %d\n", resp.GameCount)
}

func (c *client) playGame(game string) {
	fmt.Println("\nGuess the 4-digit number: all digits are unique, 0-9.")
	fmt.Println("A bull is a digit in the right place, a cow a right")
	fmt.Println("digit in the wrong place. Enter 'q' to leave the game.")

	for {
		input := c.prompt("\nYour guess: ")
		if input == "q" {
			c.leaveGame(game)
			return
		}

		guess, err := parseGuess(input)
		if err != nil {
			fmt.Println(err)
			continue
		}

		resp, err := c.roundTrip(&protocol.Message{
			Tag:        protocol.TagMakeGuess,
			GameName:   game,
			PlayerName: c.player,
			Guess:      guess,
		})
		if !c.ok(resp, err) {
			return
		}

		fmt.Printf("Result: %d bulls, %d cows (attempt %d)\n",
			resp.Result.Bulls, resp.Result.Cows, resp.Result.Attempt)

		if resp.Tag == protocol.TagGameWon {
			fmt.Printf("\n*** You won in %d attempts! ***\n", resp.Result.Attempt)
			return
		}
	}
}

func (c *client) leaveGame(game string) {
	resp, err := c.roundTrip(&protocol.Message{
		Tag:        protocol.TagLeaveGame,
		GameName:   game,
		PlayerName: c.player,
	})
	if c.ok(resp, err) {
		fmt.Printf("Left game %q\n", game)
	}
}

// ok prints transport or server errors and reports whether resp is a
// success response.
func (c *client) ok(resp *protocol.Message, err error) bool {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}
	if resp.Tag == protocol.TagError {
		fmt.Printf("Error: %s\n", resp.ErrorMsg)
		return false
	}
	return true
}

// parseGuess converts a 4-character digit string into a guess,
// validating digits and uniqueness client-side before sending.
func parseGuess(input string) ([protocol.GuessDigits]int, error) {
	var guess [protocol.GuessDigits]int
	if len(input) != protocol.GuessDigits {
		return guess, fmt.Errorf("enter exactly %d digits", protocol.GuessDigits)
	}
	for i, r := range input {
		if r < '0' || r > '9' {
			return guess, errors.New("use digits 0-9 only")
		}
		guess[i] = int(r - '0')
	}
	if err := engine.ValidateGuess(engine.Guess(guess)); err != nil {
		return guess, err
	}
	return guess, nil
}
