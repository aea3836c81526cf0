package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

const bannerText = `
▄▄███▄▄· █████╗ ██╗      █████╗ ██████╗ ██╗   ██╗    ▄▄███▄▄·████████╗ █████╗ ████████╗▄▄███▄▄·
██╔════╝██╔══██╗██║     ██╔══██╗██╔══██╗╚██╗ ██╔╝    ██╔════╝╚══██╔══╝██╔══██╗╚══██╔══╝██╔════╝
███████╗███████║██║     ███████║██████╔╝ ╚████╔╝     ███████╗   ██║   ███████║   ██║   ███████╗
╚════██║██╔══██║██║     ██╔══██║██╔══██╗  ╚██╔╝      ╚════██║   ██║   ██╔══██║   ██║   ╚════██║
███████║██║  ██║███████╗██║  ██║██║  ██║   ██║       ███████║   ██║   ██║  ██║   ██║   ███████║
╚═▀▀▀══╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝       ╚═▀▀▀══╝   ╚═╝   ╚═╝  ╚═╝   ╚═╝   ╚═▀▀▀══╝
 @fr4nk3nst1ner
`

// Salary thresholds in rubles for ColorizeSalary
const (
	HighSalary   = 200000
	AboveAverage = 100000
	Average      = 50000
)

// ColorizeText applies a random color fade to the input text
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	from := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	to := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	chars := strings.Split(text, "")
	half := len(chars) / 2
	if half == 0 {
		half = 1
	}

	var b strings.Builder
	for i, ch := range chars {
		b.WriteString(from.Fade(0, float32(len(chars)), float32(i%half), to).Sprint(ch))
	}
	return b.String()
}

// PrintBanner displays the application banner
func PrintBanner(silence bool) {
	if !silence {
		fmt.Println(ColorizeText(bannerText))
	}
}

// ColorizeSalary formats a ruble amount and colors it by band
func ColorizeSalary(value int) string {
	if value <= 0 {
		return pterm.Red("Нет данных")
	}

	formatted := utils.FormatSalary(value)

	switch {
	case value >= HighSalary:
		return pterm.Green(formatted)
	case value >= AboveAverage:
		return pterm.LightGreen(formatted)
	case value >= Average:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}
