package render

import "github.com/JaimeStill/wayfinder/internal/confusion"

const messageHeight = 48

// Message draws a single line of text in place of a visualization.
func Message(c Canvas, text string, width float64) error {
	if width <= 0 {
		width = DefaultLineWidth
	}
	c.Start(width, messageHeight)
	c.Text(12, messageHeight/2+4, text, Style{FontSize: 13, Fill: ColorMutedText, Class: "message"})
	return c.End()
}

// Insufficient draws the inline message for an insufficient-data error. Any
// other error is returned without drawing.
func Insufficient(c Canvas, err error, width float64) error {
	msg, ok := confusion.Message(err)
	if !ok {
		return err
	}
	return Message(c, msg, width)
}
