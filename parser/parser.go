// Package parser reads one turn's world observation off the game engine's
// stdin wire format.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ashrun/geometry"
	"ashrun/model"
)

// NewScanner wraps r for repeated ReadWorld calls. The scanner must be
// reused across turns: constructing a fresh bufio.Scanner per turn would
// discard any input the previous scanner had already buffered ahead.
func NewScanner(r io.Reader) *bufio.Scanner {
	return bufio.NewScanner(r)
}

// ReadWorld reads one turn of input from scanner: a player line, a human
// count followed by that many human lines, then a zombie count followed by
// that many zombie lines. tick is stamped onto the returned world. scanner
// must be the same instance across turns (see NewScanner). A clean end of
// input before any line of the turn has been read returns io.EOF exactly,
// so callers can distinguish a normal shutdown from a malformed turn, which
// returns a wrapped error. ReadWorld never panics.
func ReadWorld(scanner *bufio.Scanner, tick int) (model.World, error) {
	world := model.NewWorld()
	world.Tick = tick

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return model.World{}, fmt.Errorf("reading player: %w", err)
		}
		return model.World{}, io.EOF
	}
	playerX, playerY, err := parseFields2(scanner.Text(), "player")
	if err != nil {
		return model.World{}, err
	}
	world.Player.Pos = geometry.V2{X: playerX, Y: playerY}

	humanCount, err := readCount(scanner, "human count")
	if err != nil {
		return model.World{}, err
	}
	for i := 0; i < humanCount; i++ {
		id, x, y, err := readEntityLine(scanner, "human")
		if err != nil {
			return model.World{}, err
		}
		world.Humans[id] = model.Human{ID: id, Pos: geometry.V2{X: x, Y: y}}
	}

	zombieCount, err := readCount(scanner, "zombie count")
	if err != nil {
		return model.World{}, err
	}
	for i := 0; i < zombieCount; i++ {
		id, x, y, nextX, nextY, err := readZombieLine(scanner)
		if err != nil {
			return model.World{}, err
		}
		world.Zombies[id] = model.Zombie{ID: id, Pos: geometry.V2{X: x, Y: y}, Next: geometry.V2{X: nextX, Y: nextY}}
	}

	return world, nil
}

func nextLine(scanner *bufio.Scanner, what string) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", what, err)
		}
		return "", fmt.Errorf("reading %s: %w", what, io.ErrUnexpectedEOF)
	}
	return scanner.Text(), nil
}

func parseFields2(line, what string) (float32, float32, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("parsing %s line %q: want 2 fields, got %d", what, line, len(fields))
	}
	x, err := parseFloat(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing %s x: %w", what, err)
	}
	y, err := parseFloat(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parsing %s y: %w", what, err)
	}
	return x, y, nil
}

func readCount(scanner *bufio.Scanner, what string) (int, error) {
	line, err := nextLine(scanner, what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", what, line, err)
	}
	return n, nil
}

func readEntityLine(scanner *bufio.Scanner, what string) (id int, x, y float32, err error) {
	line, err := nextLine(scanner, what)
	if err != nil {
		return 0, 0, 0, err
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("parsing %s line %q: want 3 fields, got %d", what, line, len(fields))
	}
	id, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parsing %s id: %w", what, err)
	}
	x, err = parseFloat(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parsing %s x: %w", what, err)
	}
	y, err = parseFloat(fields[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parsing %s y: %w", what, err)
	}
	return id, x, y, nil
}

func readZombieLine(scanner *bufio.Scanner) (id int, x, y, nextX, nextY float32, err error) {
	line, err := nextLine(scanner, "zombie")
	if err != nil {
		return 0, 0, 0, 0, 0, err
	}
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return 0, 0, 0, 0, 0, fmt.Errorf("parsing zombie line %q: want 5 fields, got %d", line, len(fields))
	}
	id, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, 0, 0, fmt.Errorf("parsing zombie id: %w", err)
	}
	values := make([]float32, 4)
	for i, label := range []string{"x", "y", "next_x", "next_y"} {
		v, err := parseFloat(fields[i+1])
		if err != nil {
			return 0, 0, 0, 0, 0, fmt.Errorf("parsing zombie %s: %w", label, err)
		}
		values[i] = v
	}
	return id, values[0], values[1], values[2], values[3], nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}
