package web

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"time"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
	Description string   `xml:"description"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Feed serves an RSS 2.0 feed of the newest blog entries.
func (h *Handler) Feed(w http.ResponseWriter, _ *http.Request) {
	entries := h.blog.Entries()
	if len(entries) > h.site.FeedSize {
		entries = entries[:h.site.FeedSize]
	}

	ch := rssChannel{
		Title:       h.site.Name,
		Link:        h.site.URL + h.blog.Prefix(),
		Description: h.site.Description,
		Items:       make([]rssItem, 0, len(entries)),
	}
	if len(entries) > 0 {
		ch.LastBuildDate = entries[0].Date.Format(time.RFC1123Z)
	}
	for _, e := range entries {
		link := h.site.URL + h.blog.URL(e)
		ch.Items = append(ch.Items, rssItem{
			Title:       e.Title,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
			PubDate:     e.Date.Format(time.RFC1123Z),
			Categories:  e.Tags,
			Description: e.Content,
		})
	}

	out, err := xml.MarshalIndent(rss{Version: "2.0", Channel: ch}, "", "  ")
	if err != nil {
		h.logger.Error("web: encode feed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}
