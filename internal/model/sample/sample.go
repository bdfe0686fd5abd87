package sample

// Sample 是页面上可一键载入的示例文本。
type Sample struct {
	Index int    `json:"index" yaml:"-"`
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// Seed provides the default example texts shown under the input box.
func Seed() []Sample {
	return []Sample{
		{
			Title: "Big win",
			Text:  "I'm absolutely thrilled! Just received the best news of my life! 😄🎉 My team won the championship and I got the MVP award! This is beyond amazing! 🏆✨ #blessed",
		},
		{
			Title: "Rough day",
			Text:  "Having a really tough day today... 😔💔 Miss my family so much and everything feels overwhelming. The rain outside just makes it worse. ☔️ Just want to crawl into bed and sleep forever.",
		},
		{
			Title: "Lost package",
			Text:  "I can't believe this happened! Absolutely furious right now! 😡🤬 The package was supposed to arrive yesterday, now they say it's lost! And customer service is useless! 💢 This is unacceptable!",
		},
		{
			Title: "Rollercoaster",
			Text:  "What a rollercoaster of emotions today! 😅 Got amazing feedback at work 🎯 but then my car broke down 🚗💨, then my friends surprised me with dinner! 🍽️❤️ So many feelings at once! 🎭",
		},
	}
}

// QuickEmojis 是输入框旁的快捷插入按钮。
func QuickEmojis() []string {
	return []string{"😄", "😢", "😡", "😨", "😲", "❤️", "🎉", "💔"}
}
