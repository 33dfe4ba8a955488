package userclient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"quizboard/internal/account"
	"quizboard/internal/notify"
)

// hintRequest typed at the answer prompt asks the server for a hint.
const hintRequest = "?"

func promptAnswer(reader *bufio.Reader, out io.Writer, optionCount int) (string, bool) {
	if optionCount < 1 {
		return "", false
	}

	maxLetter := byte('A' + optionCount - 1)
	fmt.Fprintf(out, "Your answer (A-%c, %s for a hint): ", maxLetter, hintRequest)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}

	answer := strings.ToUpper(strings.TrimSpace(line))
	if answer == hintRequest {
		return hintRequest, true
	}
	if len(answer) != 1 {
		return "", false
	}
	letter := answer[0]
	if letter < 'A' || letter > maxLetter {
		return "", false
	}

	return answer, true
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  categories")
	fmt.Fprintln(out, "  play <category>")
	fmt.Fprintln(out, "  hint <category> <question_number>")
	fmt.Fprintln(out, "  history [limit]")
	fmt.Fprintln(out, "  profile")
	fmt.Fprintln(out, "  performance")
	fmt.Fprintln(out, "  streak")
	fmt.Fprintln(out, "  notifications [unread]")
	fmt.Fprintln(out, "  read <notification_id>")
	fmt.Fprintln(out, "  read-all")
	fmt.Fprintln(out, "  clear-notifications")
	fmt.Fprintln(out, "  clear-results")
	fmt.Fprintln(out, "  settings [notifications|timer|sound on|off]")
	fmt.Fprintln(out, "  exit")
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

// settingField maps the names typed at the prompt to the settings JSON keys.
var settingField = map[string]string{
	"notifications": "notifications",
	"timer":         "timerVisible",
	"timervisible":  "timerVisible",
	"sound":         "sound",
}

func parseSetting(name, value string) (string, bool, error) {
	field, ok := settingField[strings.ToLower(name)]
	if !ok {
		return "", false, fmt.Errorf("unknown setting %q", name)
	}

	switch strings.ToLower(value) {
	case "on", "true", "yes":
		return field, true, nil
	case "off", "false", "no":
		return field, false, nil
	default:
		return "", false, errors.New("value must be on or off")
	}
}

func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(out, "Please answer yes or no.")
		}
	}
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}

func printNotifications(out io.Writer, notifications []notify.Notification) {
	for _, notification := range notifications {
		marker := " "
		if !notification.Read {
			marker = "*"
		}
		fmt.Fprintf(out, "%s [%s] %s  %s (%s)\n",
			marker,
			notification.Type,
			notification.Message,
			notification.Time.Local().Format(time.DateTime),
			notification.ID,
		)
	}
}

func printSettings(out io.Writer, settings account.Settings) {
	fmt.Fprintf(out, "notifications=%s timer=%s sound=%s\n",
		onOff(settings.Notifications),
		onOff(settings.TimerVisible),
		onOff(settings.Sound),
	)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
