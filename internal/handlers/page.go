package handlers

import "net/http"

// Index handles GET / and serves the single-page UI.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexPageHTML))
}

const indexPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>AI Story &amp; Image Generator</title>
  <style>
    * { box-sizing: border-box; }
    body { font-family: system-ui, sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; }
    h1 { font-size: 1.5rem; margin-bottom: 0.5rem; }
    .muted { font-size: 0.9rem; color: #666; }
    textarea { width: 100%; min-height: 100px; padding: 0.5rem; margin: 0.75rem 0; border: 1px solid #ccc; border-radius: 4px; resize: vertical; }
    button { padding: 0.5rem 1rem; background: #333; color: #fff; border: none; border-radius: 4px; cursor: pointer; }
    button:hover { background: #555; }
    button:disabled { opacity: 0.6; cursor: not-allowed; }
    section { margin-top: 2rem; padding: 1.25rem; border: 1px solid #e0e0e0; border-radius: 8px; }
    section h2 { font-size: 1.1rem; margin-top: 0; }
    #story p { line-height: 1.5; }
    #illustration img { max-width: 100%; height: auto; border-radius: 4px; }
    .status { margin-top: 1rem; font-size: 0.9rem; }
    .status.error { color: #c00; }
    a.download { display: inline-block; margin-top: 0.5rem; color: #333; }
  </style>
</head>
<body>
  <h1>&#128214; AI Story &amp; Image Generator</h1>
  <p class="muted">Create a story with AI and get a custom illustration and PDF.</p>

  <form id="form-generate">
    <label for="prompt">Enter your story prompt:</label>
    <textarea id="prompt" name="prompt" placeholder="e.g., A robot learning to paint in a bustling city market..."></textarea>
    <button type="submit" id="btn-generate">&#10024; Generate Story &amp; Image</button>
  </form>
  <div id="status" class="status" style="display:none;"></div>

  <section id="story-wrap" style="display:none;">
    <h2>Your Generated Story</h2>
    <div id="story"></div>
  </section>

  <section id="illustration-wrap" style="display:none;">
    <h2>Story Illustration</h2>
    <div id="illustration"></div>
  </section>

  <section id="download-wrap" style="display:none;">
    <h2>Storybook PDF</h2>
    <a id="download" class="download" href="#">&#128229; Download Story as PDF</a>
  </section>

  <script>
    (function() {
      var form = document.getElementById('form-generate');
      var button = document.getElementById('btn-generate');
      var statusEl = document.getElementById('status');

      function setStatus(text, isError) {
        statusEl.style.display = 'block';
        statusEl.textContent = text;
        statusEl.classList.toggle('error', !!isError);
      }

      function hide(id) { document.getElementById(id).style.display = 'none'; }
      function show(id) { document.getElementById(id).style.display = 'block'; }

      function b64ToBlob(b64, type) {
        var bin = atob(b64);
        var bytes = new Uint8Array(bin.length);
        for (var i = 0; i < bin.length; i++) bytes[i] = bin.charCodeAt(i);
        return new Blob([bytes], { type: type });
      }

      form.addEventListener('submit', function(e) {
        e.preventDefault();
        var prompt = document.getElementById('prompt').value.trim();
        if (!prompt) {
          setStatus('Please enter a story prompt to begin.', true);
          return;
        }

        button.disabled = true;
        hide('story-wrap'); hide('illustration-wrap'); hide('download-wrap');
        setStatus('Generating your story, illustration and PDF... this can take a minute.');

        fetch('/v1/storybooks', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ prompt: prompt })
        }).then(function(res) {
          return res.json().then(function(data) { return { ok: res.ok, data: data }; });
        }).then(function(r) {
          button.disabled = false;
          if (!r.ok) {
            setStatus(r.data.error || 'Generation failed.', true);
            return;
          }

          var storyEl = document.getElementById('story');
          storyEl.innerHTML = '';
          r.data.paragraphs.forEach(function(p) {
            var el = document.createElement('p');
            el.textContent = p;
            storyEl.appendChild(el);
          });
          show('story-wrap');

          if (r.data.image_b64) {
            var img = document.createElement('img');
            img.src = 'data:' + (r.data.image_mime_type || 'image/png') + ';base64,' + r.data.image_b64;
            img.alt = 'Story illustration';
            var wrap = document.getElementById('illustration');
            wrap.innerHTML = '';
            wrap.appendChild(img);
            show('illustration-wrap');
          }

          var blob = b64ToBlob(r.data.pdf_b64, 'application/pdf');
          var link = document.getElementById('download');
          if (link.href && link.href.indexOf('blob:') === 0) URL.revokeObjectURL(link.href);
          link.href = URL.createObjectURL(blob);
          link.download = r.data.pdf_filename || 'AI_Story.pdf';
          show('download-wrap');

          setStatus('All done! Download your storybook below.');
        }).catch(function() {
          button.disabled = false;
          setStatus('Request failed. Is the server running?', true);
        });
      });
    })();
  </script>
</body>
</html>
`
