package client

import (
	"fmt"
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/draw"
	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear so text
	// from the previous screen doesn't persist.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	snapshot := c.game.Snapshot()

	if c.state.GameState == GameStatePlaying && !c.state.isInactive {
		hidePlayer := false
		if sp, ok := snapshot.PlayerSprite(); ok {
			hidePlayer = !object.ShouldRenderBlink(sp.Invincible, config.PlayerBlinkFrequency)
		}
		draw.DrawSnapshot(c.canvas, c.view, snapshot, hidePlayer)
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snapshot sim.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	}
}

// writeText writes s at (col, row) and marks the cells for repaint.
func (c *Client) writeText(col, row int, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	if col < 1 {
		col = 1
	}
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// writeCentered writes s centered on centerX.
func (c *Client) writeCentered(centerX, row int, s string) {
	c.writeText(centerX-len([]rune(s))/2, row, s)
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	left := config.InactivityDisconnectUser*time.Second - c.state.idle
	msg := fmt.Sprintf("You will be disconnected in %d seconds.", int(left.Seconds()))
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleArt := []string{
		` ___ ___  _   ___ ___ `,
		`/ __| _ \/_\ / __| __|`,
		`\__ \  _/ _ \ (__| _| `,
		`|___/_|/_/ \_\___|___|`,
	}

	titleStartY := centerY - 7
	for i, line := range titleArt {
		c.writeCentered(centerX, titleStartY+i, line)
	}
	c.writeCentered(centerX, titleStartY+len(titleArt)+1, "~ I N V A D E R S ~")

	controlsY := titleStartY + len(titleArt) + 3
	c.writeCentered(centerX, controlsY, "Controls")
	controlLines := []string{
		"W A S D / arrows . . Move",
		"SPACE  . . . . . . . Fire",
		"Q  . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+1+i, line)
	}

	promptRow := controlsY + len(controlLines) + 2
	if c.state.elapsed.Milliseconds()/600%2 == 0 {
		c.writeCentered(centerX, promptRow, ">>  Press SPACE to Start  <<")
	} else {
		c.writeCentered(centerX, promptRow, "                            ")
	}
}

// drawPlayingHUD draws the in-game HUD. Fields are fixed width so shrinking
// values don't leave stale characters behind.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot sim.Snapshot) {
	c.writeText(2, 1, fmt.Sprintf("Score: %-6d Enemies: %-3d", snapshot.Score, snapshot.EnemyCount))

	if c.username != "" {
		c.writeText(termWidth-len(c.username), 1, c.username)
	}

	status := ""
	switch {
	case snapshot.RespawnIn > 0:
		status = fmt.Sprintf("Respawn in %.1fs", snapshot.RespawnIn.Seconds())
	case !snapshot.Player.Alive:
		status = "Respawning..."
	default:
		if sp, ok := snapshot.PlayerSprite(); ok && sp.Invincible > 0 {
			status = fmt.Sprintf("Shield %.1fs", sp.Invincible.Seconds())
		}
	}
	c.writeText(2, termHeight, fmt.Sprintf("%-18s", status))

	hint := "Q quit"
	c.writeText(termWidth-len(hint), termHeight, hint)
}

// drawShutdownScreen draws the server shutdown notice.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer.Seconds()) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
