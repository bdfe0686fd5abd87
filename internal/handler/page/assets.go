package page

const indexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>MoodLens</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; background: #f5f7fb; color: #1f2937; }
    main { max-width: 960px; margin: 0 auto; padding: 24px; display: grid; gap: 24px; grid-template-columns: 1fr 1fr; }
    section { background: #fff; border-radius: 12px; padding: 20px; box-shadow: 0 2px 8px rgba(0,0,0,.06); }
    textarea { width: 100%; min-height: 140px; box-sizing: border-box; font-size: 15px; padding: 10px; resize: none; overflow: hidden; }
    button { cursor: pointer; border: 0; border-radius: 8px; padding: 8px 14px; margin: 4px 4px 0 0; background: #e5e7eb; }
    button:disabled { opacity: .6; cursor: wait; }
    #analyzeBtn { background: #6366f1; color: #fff; }
    .emoji-btn { background: transparent; font-size: 20px; padding: 4px; }
    #loadingSpinner { display: none; margin-top: 12px; }
    .emotion-row { display: grid; grid-template-columns: 140px 1fr 60px; gap: 8px; align-items: center; margin: 6px 0; }
    .emotion-bar { background: #eef0f4; height: 10px; border-radius: 5px; overflow: hidden; }
    .emotion-bar-fill { height: 100%; }
    .top-marker { font-size: 11px; background: #111827; color: #fff; border-radius: 4px; padding: 1px 5px; }
    .top-emotion { border-left: 6px solid; padding-left: 12px; display: flex; gap: 12px; align-items: center; }
    .top-glyph { font-size: 42px; }
    .history-badge { font-size: 12px; color: #6b7280; }
    .result-meta { display: flex; gap: 16px; color: #6b7280; font-size: 13px; }
    .empty-state, .error-panel { text-align: center; color: #6b7280; }
    .empty-glyph, .error-glyph { font-size: 48px; }
    #notification { position: fixed; top: 16px; right: 16px; padding: 12px 18px; border-radius: 8px; color: #fff; display: none; }
  </style>
</head>
<body data-session="{{ .SessionID }}">
  <div id="notification" role="status"></div>
  <main>
    <section>
      <h1>MoodLens</h1>
      <textarea id="textInput" placeholder="How are you feeling today? Type or paste some text..." autofocus></textarea>
      <div class="emoji-bar">
        {{- range .Emojis }}<button type="button" class="emoji-btn" data-emoji="{{ . }}">{{ . }}</button>{{ end }}
      </div>
      <div>
        <button type="button" id="analyzeBtn">Analyze Emotions</button>
        <button type="button" id="clearBtn">Clear</button>
        <button type="button" id="historyBtn">History</button>
      </div>
      <div class="samples">
        <h4>Try a sample</h4>
        {{- range .Samples }}<button type="button" class="sample-btn" data-sample="{{ .Index }}" title="{{ .Text }}">{{ .Title }}</button>{{ end }}
      </div>
      <div id="loadingSpinner">⏳ Analyzing...</div>
    </section>
    <section id="resultsContainer"></section>
  </main>
  <script src="/static/app.js"></script>
</body>
</html>
`

const appJS = `(function () {
  "use strict";

  var ids = ["textInput", "analyzeBtn", "clearBtn", "historyBtn", "resultsContainer", "loadingSpinner"];
  var el = {};
  var present = [];
  ids.forEach(function (id) {
    var node = document.getElementById(id);
    if (node) {
      el[id] = node;
      present.push(id);
    }
  });

  var sessionId = document.body.dataset.session;
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws/" + encodeURIComponent(sessionId));

  function send(type, data) {
    if (ws.readyState !== WebSocket.OPEN) return;
    ws.send(JSON.stringify({ type: type, data: data || {}, timestamp: Date.now() }));
  }

  function syncInput() {
    var t = el.textInput;
    if (!t) return;
    send("input", { value: t.value, selectionStart: t.selectionStart, selectionEnd: t.selectionEnd });
  }

  function autoResize() {
    var t = el.textInput;
    if (!t) return;
    t.style.height = "auto";
    t.style.height = t.scrollHeight + "px";
  }

  function showNotification(n) {
    var box = document.getElementById("notification");
    if (!box) return;
    if (!n) {
      box.style.display = "none";
      return;
    }
    box.textContent = n.icon + " " + n.message;
    box.style.background = n.color;
    box.style.display = "block";
  }

  function applyRender(f) {
    if (el.analyzeBtn && f.trigger) {
      el.analyzeBtn.textContent = f.trigger.label;
      el.analyzeBtn.disabled = f.trigger.disabled;
    }
    if (el.loadingSpinner) {
      el.loadingSpinner.style.display = f.busy ? "block" : "none";
    }
    if (el.resultsContainer && f.html) {
      el.resultsContainer.innerHTML = f.html;
    }
    if (el.textInput && f.input) {
      el.textInput.value = f.input.value;
      el.textInput.setSelectionRange(f.input.caret, f.input.caret);
      autoResize();
    }
    if (el.textInput && f.focus) {
      el.textInput.focus();
    }
    showNotification(f.notification);
  }

  ws.addEventListener("open", function () {
    send("hello", { elements: present });
    syncInput();
  });

  ws.addEventListener("message", function (ev) {
    var msg;
    try {
      msg = JSON.parse(ev.data);
    } catch (e) {
      return;
    }
    if (msg.type === "render") {
      applyRender(msg.data || {});
    } else if (msg.type === "navigate" && msg.data) {
      window.location.href = msg.data.url;
    } else if (msg.type === "error" && msg.data) {
      console.warn("moodlens:", msg.data.message);
    }
  });

  if (el.textInput) {
    el.textInput.addEventListener("input", function () {
      autoResize();
      syncInput();
    });
    ["keyup", "click", "select"].forEach(function (name) {
      el.textInput.addEventListener(name, syncInput);
    });
    el.textInput.addEventListener("keydown", function (ev) {
      if (ev.key === "Enter" && (ev.ctrlKey || ev.metaKey)) {
        ev.preventDefault();
        syncInput();
        send("analyze");
      }
    });
  }

  if (el.analyzeBtn) {
    el.analyzeBtn.addEventListener("click", function () {
      syncInput();
      send("analyze");
    });
  }
  if (el.clearBtn) {
    el.clearBtn.addEventListener("click", function () { send("clear"); });
  }
  if (el.historyBtn) {
    el.historyBtn.addEventListener("click", function () { send("history"); });
  }

  document.addEventListener("click", function (ev) {
    var target = ev.target.closest ? ev.target.closest("[data-emoji],[data-sample],[data-action]") : null;
    if (!target) return;
    if (target.dataset.emoji) {
      syncInput();
      send("insert", { text: target.dataset.emoji });
    } else if (target.dataset.sample !== undefined) {
      send("sample", { index: parseInt(target.dataset.sample, 10) });
    } else if (target.dataset.action) {
      if (target.dataset.action === "analyze") syncInput();
      send(target.dataset.action);
    }
  });
})();
`
