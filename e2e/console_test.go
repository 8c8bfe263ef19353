//go:build e2e && unix

package main

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTabsLoadOnFirstVisit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startConsole(t, tf)
	require.True(t, tf.SeePlain("30 users"))

	tf.SendKeys("2")
	require.NoError(t, tf.WaitForE(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), "30 courts")
	}, 3*time.Second, "courts tab should load"))

	tf.SendKeys("\t")
	require.True(t, tf.SeePlain("30 tournaments"), "tab moves to the next domain")
}

func TestOpensRequestedDomain(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startConsole(t, tf, "tui", "microsites")
	require.True(t, tf.SeePlain("30 microsites"))
}

func TestPagingAndOutOfRange(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startConsole(t, tf)

	tf.SendKeys("l")
	require.True(t, tf.SeePlain("Page 2/3"))

	tf.SendKeys(":")
	require.True(t, tf.SeePlain("Go to page"))
	tf.Type("7")
	require.True(t, tf.SeePlain("page 7 is out of range 1-3"))
}

func TestSelectAndApprove(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startConsole(t, tf)

	tf.Select()
	tf.Down()
	tf.Select()
	require.True(t, tf.SeePlain("2 selected"))

	tf.SendKeys("b")
	require.True(t, tf.SeePlain("[a] Approve"), "Should list the bulk actions")
	tf.SendKeys("a")
	require.True(t, tf.SeePlain("Approve 2 users."), "Should ask for confirmation")
	tf.SendKeys("y")

	require.NoError(t, tf.WaitForE(func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), "Approve applied to 2 users.")
	}, 3*time.Second, "approval should complete"))
}

func TestRejectAsksForReason(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startConsole(t, tf)

	tf.Select()
	tf.SendKeys("b")
	tf.SendKeys("r")
	require.True(t, tf.SeePlain("Reason:"))
	tf.SendEnter()
	require.True(t, tf.SeePlain("a reason is required"))

	tf.Type("duplicate account")
	require.True(t, tf.OutputContainsPlain("Reject applied to 1 users.", 3*time.Second))
}

func TestFilter(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startConsole(t, tf)

	tf.SendKeys("/")
	require.True(t, tf.SeePlain("Filter (words or field=value)"))
	tf.Type("role=admin")
	require.True(t, tf.SeePlain("Filter: role=admin"))

	mark := tf.Mark()
	tf.SendKeys("c")
	require.True(t, tf.SeePlainSince(mark, "Filter: none"))
}

func TestExportToDirectory(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startConsole(t, tf)

	tf.SendKeys("e")
	require.True(t, tf.SeePlain("[x] Excel"))
	tf.SendKeys("x")
	require.True(t, tf.OutputContainsPlain("Export saved to", 5*time.Second))

	entries, err := os.ReadDir(tf.ExportDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasSuffix(entries[0].Name(), ".xlsx"), entries[0].Name())
}

func TestNotifyClass(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	startConsole(t, tf)

	tf.SendKeys("n")
	require.True(t, tf.SeePlain("[3] players"))
	tf.SendKeys("3")
	require.True(t, tf.SeePlain("Subject:"))
	tf.Type("Season opening")
	require.True(t, tf.SeePlain("Message:"))
	tf.Type("Registrations are open.")
	require.True(t, tf.OutputContainsPlain("Notification sent to players.", 3*time.Second))
}
