package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/parley-ai/chat-console/internal/model"
	"github.com/parley-ai/chat-console/internal/session"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	snap := m.ctrl.Snapshot()

	sidebar := m.renderSidebar(snap)
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(snap),
		m.vp.View(),
		m.input.View(),
		m.renderStatusBar(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

func (m Model) renderSidebar(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Conversations"))
	b.WriteString("\n")

	active, hasActive := snap.ActiveID()
	for _, conv := range snap.Catalog {
		title := conv.DisplayTitle()
		if len(title) > sidebarWidth-4 {
			title = title[:sidebarWidth-5] + "…"
		}
		if hasActive && conv.ID == active {
			b.WriteString(selectedStyle.Render(title))
		} else {
			b.WriteString(normalStyle.Render(title))
		}
		b.WriteString("\n")
	}

	if !hasActive {
		b.WriteString(selectedStyle.Render("+ new chat"))
	} else {
		b.WriteString(dimStyle.Render("  ctrl+o new chat"))
	}

	return sidebarStyle.Height(m.height).Render(b.String())
}

func (m Model) renderHeader(snap session.Snapshot) string {
	title := "New chat"
	if id, ok := snap.ActiveID(); ok {
		title = "Conversation"
		for _, conv := range snap.Catalog {
			if conv.ID == id {
				title = conv.DisplayTitle()
				break
			}
		}
	}
	return titleStyle.Render(title)
}

func (m Model) renderThread(snap session.Snapshot) string {
	if len(snap.Thread) == 0 {
		return dimStyle.Render("No messages yet. Say something.")
	}

	width := m.threadWidth() - 2
	var parts []string
	for _, entry := range snap.Thread {
		var b strings.Builder
		switch entry.Message.Role {
		case model.RoleAssistant:
			b.WriteString(assistantTag.Render("assistant"))
			b.WriteString("\n")
			b.WriteString(renderMarkdown(entry.Message.Content, width))
		default:
			b.WriteString(userTag.Render(string(entry.Message.Role)))
			b.WriteString("\n")
			b.WriteString(entry.Message.Content)
		}

		switch entry.Delivery {
		case session.DeliveryPending:
			b.WriteString("\n")
			b.WriteString(dimStyle.Render("sending…"))
		case session.DeliveryFailed:
			b.WriteString("\n")
			b.WriteString(failedStyle.Render("✗ not delivered"))
		}

		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.inflight > 0:
		status = m.spin.View() + " waiting for backend"
	case m.lastErr != nil:
		status = failedStyle.Render(fmt.Sprintf("error: %v", m.lastErr))
	default:
		status = "enter send · ctrl+p/ctrl+n switch · ctrl+o new chat · esc quit"
	}
	return statusBarStyle.Width(m.threadWidth()).Render(status)
}
