// Package snippet renders the embeddable review widget: a container
// element plus an inline script a business owner pastes into their own
// site. Generation is pure and deterministic; identical configs yield
// byte-identical output.
package snippet

import (
	"fmt"
	"html/template"
	"strings"
)

// Config is the fully-populated input to Generate. Defaults are applied
// upstream when the widget is constructed; Generate substitutes nothing
// except the client-side "|| 5000" delay fallback the emitted script
// carries for resilience on the embedding page.
type Config struct {
	WidgetCode     string
	Title          string
	Subtitle       string
	ButtonText     string
	Theme          string
	Position       string
	ShowAfterMS    int
	PrimaryColor   string
	SecondaryColor string
	TextColor      string
	// SubmitURL is the absolute submission endpoint, resolved against
	// the configured public origin.
	SubmitURL string
}

// positionCSS maps the closed position set to fixed-placement rules.
// Unrecognized values yield no rule: the call-to-action degrades to
// default document flow instead of failing.
var positionCSS = map[string]string{
	"bottom-right": "bottom: 20px; right: 20px;",
	"bottom-left":  "bottom: 20px; left: 20px;",
	"top-right":    "top: 20px; right: 20px;",
	"top-left":     "top: 20px; left: 20px;",
}

// PositionCSS returns the placement rule for a position value, or the
// empty string for values outside the closed set.
func PositionCSS(position string) string {
	return positionCSS[position]
}

type templateData struct {
	Code        string // HTML/JS-safe widget code
	Title       string
	Subtitle    string
	ButtonText  string
	PosCSS      template.CSS
	ShowAfterMS int
	Primary     string
	Secondary   string
	Text        string
	SubmitURL   string
}

var snippetTemplate = template.Must(template.New("snippet").Parse(`<!-- ReviewPop Widget -->
<div id="reviewpop-widget-{{.Code}}"></div>
<script>
(function() {
  var widgetId = '{{.Code}}';
  var submitUrl = {{.SubmitURL}};
  var container = document.getElementById('reviewpop-widget-' + widgetId);
  if (!container) return;

  container.innerHTML =
    '<div id="reviewpop-cta-' + widgetId + '" style="display: none; position: fixed; {{.PosCSS}} z-index: 9999; background: {{.Primary}}; color: white; padding: 12px 20px; border-radius: 25px; cursor: pointer; font-family: Arial, sans-serif; font-size: 14px; box-shadow: 0 4px 12px rgba(0,0,0,0.15);">{{.ButtonText}}</div>' +
    '<div id="reviewpop-modal-' + widgetId + '" style="display: none; position: fixed; top: 0; left: 0; width: 100%; height: 100%; background: rgba(0,0,0,0.5); z-index: 10000; align-items: center; justify-content: center;">' +
      '<div style="background: {{.Secondary}}; color: {{.Text}}; padding: 30px; border-radius: 10px; max-width: 500px; width: 90%; max-height: 80vh; overflow-y: auto; font-family: Arial, sans-serif;">' +
        '<h3 style="margin-top: 0;">{{.Title}}</h3>' +
        '<p style="margin-bottom: 20px;">{{.Subtitle}}</p>' +
        '<form id="reviewpop-form-' + widgetId + '">' +
          '<div style="margin-bottom: 15px;"><label style="display: block; margin-bottom: 5px; font-weight: bold;">Name:</label><input type="text" name="name" required style="width: 100%; padding: 8px; border: 1px solid #ddd; border-radius: 4px;"></div>' +
          '<div style="margin-bottom: 15px;"><label style="display: block; margin-bottom: 5px; font-weight: bold;">Email:</label><input type="email" name="email" required style="width: 100%; padding: 8px; border: 1px solid #ddd; border-radius: 4px;"></div>' +
          '<div style="margin-bottom: 15px;"><label style="display: block; margin-bottom: 5px; font-weight: bold;">Rating:</label><div id="reviewpop-stars-' + widgetId + '" style="font-size: 24px; margin-bottom: 10px; cursor: pointer;"><span>⭐</span><span>⭐</span><span>⭐</span><span>⭐</span><span>⭐</span></div><input type="hidden" name="rating" value="5"></div>' +
          '<div style="margin-bottom: 15px;"><label style="display: block; margin-bottom: 5px; font-weight: bold;">Review:</label><textarea name="review" required rows="4" style="width: 100%; padding: 8px; border: 1px solid #ddd; border-radius: 4px; resize: vertical;"></textarea></div>' +
          '<div style="text-align: right;">' +
            '<button type="button" id="reviewpop-cancel-' + widgetId + '" style="background: #ccc; color: #333; border: none; padding: 10px 20px; border-radius: 4px; cursor: pointer; margin-right: 10px;">Cancel</button>' +
            '<button type="submit" style="background: {{.Primary}}; color: white; border: none; padding: 10px 20px; border-radius: 4px; cursor: pointer;">Submit Review</button>' +
          '</div>' +
        '</form>' +
      '</div>' +
    '</div>';

  var cta = document.getElementById('reviewpop-cta-' + widgetId);
  var modal = document.getElementById('reviewpop-modal-' + widgetId);
  var form = document.getElementById('reviewpop-form-' + widgetId);

  setTimeout(function() {
    cta.style.display = 'block';
  }, {{.ShowAfterMS}} || 5000);

  cta.addEventListener('click', function() {
    modal.style.display = 'flex';
  });
  document.getElementById('reviewpop-cancel-' + widgetId).addEventListener('click', function() {
    modal.style.display = 'none';
  });

  var stars = document.getElementById('reviewpop-stars-' + widgetId).getElementsByTagName('span');
  function setRating(rating) {
    for (var i = 0; i < stars.length; i++) {
      stars[i].style.opacity = i < rating ? '1' : '0.3';
    }
    form.elements['rating'].value = rating;
  }
  for (var i = 0; i < stars.length; i++) {
    (function(n) {
      stars[n].addEventListener('click', function() { setRating(n + 1); });
    })(i);
  }

  form.addEventListener('submit', function(event) {
    event.preventDefault();
    var data = {
      name: form.elements['name'].value,
      email: form.elements['email'].value,
      rating: parseInt(form.elements['rating'].value, 10),
      review: form.elements['review'].value,
      widgetId: widgetId
    };
    fetch(submitUrl, {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(data)
    })
    .then(function(response) {
      if (!response.ok) throw new Error('submit failed');
      return response.json();
    })
    .then(function() {
      alert('Thank you for your review!');
      modal.style.display = 'none';
      form.reset();
    })
    .catch(function() {
      alert('Error submitting review. Please try again.');
    });
  });
})();
</script>
<!-- End ReviewPop Widget -->`))

// Generate renders the embed snippet for a widget configuration. It is
// a pure function: no I/O, no clock, no randomness. Configuration
// strings pass through contextual template escaping before they reach
// the emitted HTML and script.
func Generate(cfg Config) string {
	data := templateData{
		Code:        cfg.WidgetCode,
		Title:       cfg.Title,
		Subtitle:    cfg.Subtitle,
		ButtonText:  cfg.ButtonText,
		PosCSS:      template.CSS(PositionCSS(cfg.Position)),
		ShowAfterMS: cfg.ShowAfterMS,
		Primary:     sanitizeColor(cfg.PrimaryColor),
		Secondary:   sanitizeColor(cfg.SecondaryColor),
		Text:        sanitizeColor(cfg.TextColor),
		SubmitURL:   cfg.SubmitURL,
	}

	var buf strings.Builder
	if err := snippetTemplate.Execute(&buf, data); err != nil {
		// The template and data are static; execution cannot fail.
		return ""
	}
	return buf.String()
}

// sanitizeColor accepts only #hex color values; anything else yields
// "inherit" so a malformed palette entry never becomes a style
// injection vector or a broken rule.
func sanitizeColor(c string) string {
	if len(c) != 4 && len(c) != 7 {
		return "inherit"
	}
	if c[0] != '#' {
		return "inherit"
	}
	for _, r := range c[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return "inherit"
		}
	}
	return c
}

// ContainerID returns the DOM id of the widget container for a code.
func ContainerID(widgetCode string) string {
	return fmt.Sprintf("reviewpop-widget-%s", widgetCode)
}
