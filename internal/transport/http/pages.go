package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var uploadPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8" />
<meta name="viewport" content="width=device-width, initial-scale=1.0" />
<title>CSV Price Updater</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; background: linear-gradient(135deg,#1f3b73,#4a90e2); color: #fff; min-height: 100vh; }
main { max-width: 640px; margin: 0 auto; padding: 48px 20px; }
.card { background: #fff; color: #333; padding: 24px; border-radius: 8px; box-shadow: 0 10px 40px rgba(0,0,0,0.2); }
label { display: block; margin-top: 12px; font-weight: bold; }
input { width: 100%; padding: 10px; margin: 8px 0; border: 1px solid #ccc; border-radius: 4px; box-sizing: border-box; }
button { margin: 12px 6px 0 0; padding: 12px 24px; font-size: 16px; border: none; border-radius: 4px; cursor: pointer; background: #1f3b73; color: #fff; }
button:disabled { background: #999; cursor: default; }
#summary { margin-top: 16px; display: none; }
footer { text-align: center; padding: 20px; font-size: 14px; opacity: 0.8; }
</style>
</head>
<body>
<main>
  <h1>CSV Price Updater</h1>
  <p>Upload a point-of-sale export, set the two percentages, and download the priced results.</p>
  <div class="card">
    <label for="file">POS CSV export</label>
    <input type="file" id="file" accept=".csv,text/csv" />
    <label for="lowest">Lowest price percentage</label>
    <input type="number" id="lowest" value="80" min="0" max="100" step="0.1" />
    <label for="current">Current price percentage</label>
    <input type="number" id="current" value="100" min="0" max="100" step="0.1" />
    <button id="submit" onclick="processFile()">Process</button>
    <a href="/api/template"><button type="button">Download template</button></a>
    <div id="summary">
      <p id="counts"></p>
      <button onclick="download('successful')">Successful updates</button>
      <button onclick="download('failed')">Manual review</button>
    </div>
  </div>
</main>
<footer>Prices are fetched row by row from the vendor site; large files take a while.</footer>
<script>
let lastBatch = null;
async function processFile() {
  const file = document.getElementById('file').files[0];
  if (!file) { alert('Choose a CSV file first'); return; }
  const form = new FormData();
  form.append('file', file);
  form.append('lowestPricePercentage', document.getElementById('lowest').value);
  form.append('currentPricePercentage', document.getElementById('current').value);
  const btn = document.getElementById('submit');
  btn.disabled = true;
  try {
    const resp = await fetch('/api/process', { method: 'POST', body: form });
    const body = await resp.json();
    if (!resp.ok) { alert(body.error || 'Processing failed'); return; }
    lastBatch = body.batchId;
    document.getElementById('counts').textContent =
      body.successCount + ' priced, ' + body.failedCount + ' need review';
    document.getElementById('summary').style.display = 'block';
  } finally {
    btn.disabled = false;
  }
}
function download(kind) {
  if (!lastBatch) return;
  window.location = '/api/batches/' + lastBatch + '/download/' + kind;
}
</script>
</body>
</html>`

func RegisterPages(e *echo.Echo) {
	e.GET("/", func(c echo.Context) error {
		return c.HTML(http.StatusOK, uploadPageHTML)
	})
}
