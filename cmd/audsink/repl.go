// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

const replHelp = `commands:
  load <path>   load a file and start playing
  play          resume
  pause         pause
  stop          stop and unload
  volume <n>    set volume in percent
  speed <x>     set playback speed
  empty         report whether playback has finished
  status        show player state
  quit          exit`

func runREPL(player controller, path string, logFile io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "audsink> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("load"),
			readline.PcItem("play"),
			readline.PcItem("pause"),
			readline.PcItem("stop"),
			readline.PcItem("volume"),
			readline.PcItem("speed"),
			readline.PcItem("empty"),
			readline.PcItem("status"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	log.SetOutput(io.MultiWriter(rl.Stderr(), logFile))
	out := rl.Stdout()

	if path != "" {
		fmt.Fprintln(out, execute(player, "load "+path))
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if isQuit(line) {
			player.Stop()
			return nil
		}
		if reply := execute(player, line); reply != "" {
			fmt.Fprintln(out, reply)
		}
	}
}

// execute runs one REPL line and returns the text to print.
func execute(player controller, line string) string {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return ""
	case "help", "?":
		return replHelp
	case "load":
		if arg == "" {
			return "usage: load <path>"
		}
		data, err := os.ReadFile(arg)
		if err != nil {
			return "error: " + err.Error()
		}
		if !player.Load(data) {
			return "load failed: " + errString(player.Err())
		}
		return "loaded " + arg

	case "play":
		if !player.Play() {
			return "play failed: " + errString(player.Err())
		}
		return "playing"

	case "pause":
		player.Pause()
		return "paused"

	case "stop":
		player.Stop()
		return "stopped"

	case "volume":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return "usage: volume <0-100>"
		}
		player.SetVolume(v)
		return fmt.Sprintf("volume %.0f%%", player.State().Volume)

	case "speed":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return "usage: speed <x>"
		}
		player.SetSpeed(v)
		return fmt.Sprintf("speed %.2fx", player.State().Speed)

	case "empty":
		return strconv.FormatBool(player.Empty())

	case "status":
		st := player.State()
		return fmt.Sprintf("loaded=%t paused=%t empty=%t volume=%.0f%% speed=%.2fx format=%s",
			st.Loaded, st.Paused, st.Empty, st.Volume, st.Speed, st.Format)
	}

	return fmt.Sprintf("unknown command %q, try help", cmd)
}

func isQuit(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
