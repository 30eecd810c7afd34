// Quake2Touch Launcher
// Copyright (c) 2026 The Quake2Touch Launcher Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Quake2Touch Launcher.
//
// Quake2Touch Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Quake2Touch Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Quake2Touch Launcher.  If not, see <http://www.gnu.org/licenses/>.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quake2touch/launcher/pkg/launcher"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

func (u *UI) closePage(name string) {
	u.pages.RemovePage(name)
	u.pages.SwitchToPage(PageMain)
	u.app.SetFocus(u.list)
}

func (u *UI) showForm(name, title string, form *tview.Form) {
	form.SetBorder(true).
		SetTitle(" " + title + " ").
		SetTitleAlign(tview.AlignCenter)
	form.SetCancelFunc(func() {
		u.closePage(name)
	})
	u.pages.AddAndSwitchToPage(name, CenterWidget(50, 11, form), true)
	u.app.SetFocus(form)
}

func fieldText(form *tview.Form, label string) string {
	field, ok := form.GetFormItemByLabel(label).(*tview.InputField)
	if !ok {
		return ""
	}
	return strings.TrimSpace(field.GetText())
}

// hostForm builds the host dialog. submit receives the finished request.
func hostForm(game string, submit func(launcher.Request), cancel func()) *tview.Form {
	form := tview.NewForm()
	form.AddInputField("Game mode", DefaultGameMode, 24, nil, nil)
	form.AddButton("Host", func() {
		mode := fieldText(form, "Game mode")
		submit(launcher.Request{Game: game, Mode: launcher.ModeHost, GameMode: mode})
	})
	form.AddButton("Cancel", cancel)
	return form
}

func joinForm(game string, submit func(launcher.Request), cancel func()) *tview.Form {
	form := tview.NewForm()
	form.AddInputField("Server", "", 24, nil, nil)
	form.AddInputField("Player name", "", 24, nil, nil)
	form.AddButton("Join", func() {
		submit(launcher.Request{
			Game:   game,
			Mode:   launcher.ModeJoin,
			Server: fieldText(form, "Server"),
			Player: fieldText(form, "Player name"),
		})
	})
	form.AddButton("Cancel", cancel)
	return form
}

// fileForm asks for the path of a zip archive to install.
func fileForm(submit func(archive string), cancel func()) *tview.Form {
	form := tview.NewForm()
	form.AddInputField("Archive", "", 36, nil, nil)
	form.AddButton("Install", func() {
		submit(fieldText(form, "Archive"))
	})
	form.AddButton("Cancel", cancel)
	return form
}

func (u *UI) showHostForm(game string) {
	form := hostForm(game, u.requestLaunch, func() { u.closePage(PageHost) })
	u.showForm(PageHost, "Host "+game, form)
}

func (u *UI) showJoinForm(game string) {
	form := joinForm(game, u.requestLaunch, func() { u.closePage(PageJoin) })
	u.showForm(PageJoin, "Join with "+game, form)
}

func (u *UI) showFileForm() {
	form := fileForm(func(archive string) {
		if archive == "" {
			u.showError("Enter the path of a zip archive.")
			return
		}
		path, err := filepath.Abs(archive)
		if err != nil {
			u.showError(err.Error())
			return
		}
		u.closePage(PageFile)
		u.unpackLocal(path)
	}, func() { u.closePage(PageFile) })
	u.showForm(PageFile, "Install from file", form)
}

func (u *UI) showDeleteModal(game string) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete %s and all of its files?", game)).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			u.closePage(PageDelete)
			if label != "Delete" {
				return
			}
			if err := u.svc.DeleteGame(game); err != nil {
				log.Error().Err(err).Msgf("error deleting game: %s", game)
				u.showError(err.Error())
			}
		})
	modal.SetTitle(" Delete ").SetBorder(true)
	u.pages.AddAndSwitchToPage(PageDelete, modal, true)
	u.app.SetFocus(modal)
}

func (u *UI) showError(msg string) {
	modal := tview.NewModal().
		SetText(msg).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			u.closePage(PageError)
		})
	modal.SetTitle(" Error ").SetBorder(true)
	u.pages.AddAndSwitchToPage(PageError, modal, true)
	u.app.SetFocus(modal)
}

func CenterWidget(width, height int, p tview.Primitive) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
