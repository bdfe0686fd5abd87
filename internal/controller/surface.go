package controller

// Element 是宿主页面上的具名元素，取值为页面中的 DOM id。
type Element string

const (
	TextInput        Element = "textInput"
	TriggerControl   Element = "analyzeBtn"
	ClearControl     Element = "clearBtn"
	HistoryControl   Element = "historyBtn"
	ResultsContainer Element = "resultsContainer"
	BusyIndicator    Element = "loadingSpinner"
)

// Elements lists every element the controller knows how to drive.
var Elements = []Element{TextInput, TriggerControl, ClearControl, HistoryControl, ResultsContainer, BusyIndicator}

// Surface records which elements the host actually provides. All of them are optional.
type Surface struct {
	present map[Element]bool
}

// FullSurface 返回包含全部元素的 Surface。
func FullSurface() Surface {
	return NewSurface(Elements...)
}

// NewSurface 根据宿主上报的元素构造 Surface，未知元素被忽略。
func NewSurface(elements ...Element) Surface {
	present := make(map[Element]bool, len(elements))
	for _, e := range elements {
		for _, known := range Elements {
			if e == known {
				present[e] = true
				break
			}
		}
	}
	return Surface{present: present}
}

// ParseSurface 将页面上报的 DOM id 列表转换为 Surface。
func ParseSurface(ids []string) Surface {
	elements := make([]Element, 0, len(ids))
	for _, id := range ids {
		elements = append(elements, Element(id))
	}
	return NewSurface(elements...)
}

// Has reports whether the element is present.
func (s Surface) Has(e Element) bool {
	return s.present[e]
}

// Missing returns the known elements the host did not provide, in Elements order.
func (s Surface) Missing() []Element {
	var missing []Element
	for _, e := range Elements {
		if !s.present[e] {
			missing = append(missing, e)
		}
	}
	return missing
}
