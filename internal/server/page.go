package server

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Multi-Source Content Summarizer</title>
  <style>
    *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      flex-direction: column;
      align-items: center;
      min-height: 100vh;
      padding: 1rem;
      transition: background-color 0.3s, color 0.3s;
      background-color: #f8f9fa;
      color: #212529;
    }

    body.dark {
      background-color: #121212;
      color: #e0e0e0;
    }
    body.dark .card, body.dark input, body.dark select, body.dark button {
      background-color: #1e1e2e;
      color: #e0e0e0;
      border-color: #444;
    }

    main { width: 100%; max-width: 900px; }
    h1 { margin: 1rem 0; font-size: 1.6rem; font-weight: 600; }
    h2 { margin: 0.5rem 0; font-size: 1.2rem; font-weight: 600; }

    .card {
      background: #ffffff;
      border: 1px solid #ddd;
      border-radius: 8px;
      padding: 1rem;
      margin-bottom: 1rem;
    }

    .row { display: flex; gap: 0.5rem; flex-wrap: wrap; margin: 0.5rem 0; }
    .row > * { flex: 1; min-width: 10rem; }

    input, select, button {
      padding: 0.4rem 0.9rem;
      font-size: 0.95rem;
      border: 1px solid #ccc;
      border-radius: 6px;
      background-color: #ffffff;
      color: #212529;
    }
    button { cursor: pointer; flex: 0 0 auto; }
    button:hover { filter: brightness(0.95); }

    .hidden { display: none !important; }
    .error { color: #c0392b; margin: 0.5rem 0; }
    .hint { font-size: 0.85rem; opacity: 0.8; }
    .summary-text { white-space: pre-wrap; line-height: 1.5; }

    .chat-msg { padding: 0.4rem 0.6rem; margin: 0.3rem 0; border-radius: 6px; }
    .chat-msg.user { background: rgba(106, 90, 205, 0.15); }
    .chat-msg.assistant { background: rgba(72, 61, 139, 0.10); }

    .mindmap img { max-width: 100%; border-radius: 6px; }
    .mermaid svg { max-width: 100%; }

    #theme-toggle { position: fixed; top: 1rem; right: 1rem; font-size: 1.3rem; }
  </style>
</head>
<body class="{{if .Dark}}dark{{end}}">
  <button id="theme-toggle" title="Toggle theme">{{if .Dark}}💡{{else}}🔦{{end}}</button>
  <main>
    <h1>Multi-Source Content Summarizer</h1>
    <p class="hint">Summarize content from YouTube videos or websites in your preferred language and length.</p>

    <section id="auth" class="card {{if .Authenticated}}hidden{{end}}">
      <h2>Login or Register</h2>
      <div class="row">
        <input id="username" placeholder="Username" autocomplete="username">
        <input id="password" type="password" placeholder="Password" autocomplete="current-password">
      </div>
      <div class="row">
        <button id="login-btn">Login</button>
        <button id="register-btn">Register</button>
      </div>
      <p id="auth-msg" class="hint"></p>
    </section>

    <section id="app" class="{{if not .Authenticated}}hidden{{end}}">
      <div class="card">
        <div class="row">
          <span>Welcome, <strong id="who">{{.Username}}</strong></span>
          <button id="logout-btn">Logout</button>
        </div>
        <div class="row">
          <select id="language">
            {{range .Languages}}<option value="{{.Name}}" {{if eq .Name $.Language}}selected{{end}}>{{.Name}}</option>{{end}}
          </select>
          <select id="length">
            {{range .Lengths}}<option value="{{.Label}}" {{if eq .Label $.Length}}selected{{end}}>{{.Label}}</option>{{end}}
          </select>
        </div>
        <div class="row">
          <input id="url" placeholder="https://example.com or YouTube URL">
          <button id="summarize-btn">Summarize</button>
        </div>
        <p id="summarize-msg" class="hint"></p>
      </div>

      <div id="result" class="hidden">
        <div class="card">
          <h2 id="summary-title"></h2>
          <p class="summary-text" id="summary-text"></p>
          <p class="hint" id="summary-meta"></p>
          <div class="row">
            <a id="pdf-link" href="/api/summary.pdf"><button>Download Summary as PDF</button></a>
            <a id="whatsapp-link" target="_blank" rel="noopener"><button>Share on WhatsApp</button></a>
            <button id="copy-btn">Copy Full Summary</button>
          </div>
          <audio id="audio" controls preload="none"></audio>
        </div>

        <div class="card mindmap">
          <h2>Mindmap</h2>
          <img id="mindmap-img" alt="Mindmap of the summary">
          <p id="mindmap-error" class="error hidden"></p>
          <div class="row">
            <a id="mindmap-download"><button>Download Mindmap</button></a>
            <a href="/api/mindmap.mmd"><button>Download Mermaid</button></a>
          </div>
          <div id="mermaid-live" class="mermaid"></div>
        </div>

        <div class="card">
          <h2>Chat with AI</h2>
          <div id="chat-log"></div>
          <div class="row">
            <input id="question" placeholder="Ask a question...">
            <button id="ask-btn">Ask</button>
          </div>
        </div>
      </div>
    </section>
  </main>

  <script type="module">
    import mermaid from 'https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs';
    mermaid.initialize({ startOnLoad: false, securityLevel: 'strict' });

    const $ = (id) => document.getElementById(id);

    async function api(path, body) {
      const opts = body === undefined ? {} : {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify(body),
      };
      const res = await fetch(path, opts);
      const data = await res.json().catch(() => ({}));
      if (!res.ok) {
        const err = new Error(data.error || res.statusText);
        err.hint = data.hint;
        throw err;
      }
      return data;
    }

    function renderChat(messages) {
      const log = $('chat-log');
      log.replaceChildren();
      for (const m of messages || []) {
        const div = document.createElement('div');
        div.className = 'chat-msg ' + m.role;
        div.textContent = m.content;
        log.appendChild(div);
      }
    }

    async function renderMindmap(mermaidSrc) {
      $('mindmap-error').classList.add('hidden');
      const ts = new Date().toISOString().replace(/[-:]/g, '').replace('T', '_').slice(0, 15);
      const src = '/api/mindmap.png?ts=' + ts;
      const res = await fetch(src);
      if (res.ok) {
        const blob = await res.blob();
        const url = URL.createObjectURL(blob);
        $('mindmap-img').src = url;
        $('mindmap-download').href = url;
        $('mindmap-download').download = 'mindmap_' + ts + '.png';
      } else {
        const data = await res.json().catch(() => ({}));
        $('mindmap-error').textContent = (data.error || 'Mindmap failed') + ' ' + (data.hint || '');
        $('mindmap-error').classList.remove('hidden');
      }
      const live = $('mermaid-live');
      live.removeAttribute('data-processed');
      live.textContent = mermaidSrc;
      await mermaid.run({ nodes: [live] });
    }

    function showSummary(data) {
      const s = data.summary;
      $('result').classList.remove('hidden');
      $('summary-title').textContent = 'Summary in ' + s.language + ': ' + s.title;
      $('summary-text').textContent = s.text;
      $('summary-meta').textContent = 'Word count: ' + s.word_count + ' words';
      $('whatsapp-link').href = data.share.whatsapp;
      $('copy-btn').onclick = () => navigator.clipboard.writeText(data.share.text);
      $('audio').src = '/api/audio.mp3?t=' + Date.now();
      renderChat(data.messages);
      renderMindmap(data.mermaid);
    }

    $('theme-toggle').onclick = async () => {
      const { dark } = await api('/api/theme', {});
      document.body.classList.toggle('dark', dark);
      $('theme-toggle').textContent = dark ? '💡' : '🔦';
      if (!$('result').classList.contains('hidden')) {
        showSummary(await api('/api/summary'));
      }
    };

    async function authenticate(path) {
      try {
        const data = await api(path, { username: $('username').value, password: $('password').value });
        $('auth-msg').textContent = data.message;
        if (path === '/api/login') location.reload();
      } catch (e) {
        $('auth-msg').textContent = e.message;
      }
    }
    $('login-btn').onclick = () => authenticate('/api/login');
    $('register-btn').onclick = () => authenticate('/api/register');
    $('logout-btn').onclick = async () => { await api('/api/logout', {}); location.reload(); };

    $('summarize-btn').onclick = async () => {
      $('summarize-msg').textContent = 'Creating summary...';
      try {
        const data = await api('/api/summarize', {
          url: $('url').value,
          language: $('language').value,
          length: $('length').value,
        });
        $('summarize-msg').textContent = '';
        showSummary(data);
      } catch (e) {
        $('summarize-msg').textContent = e.message;
      }
    };

    $('ask-btn').onclick = async () => {
      const q = $('question').value;
      if (!q.trim()) return;
      $('question').value = '';
      try {
        const data = await api('/api/chat', { question: q });
        renderChat(data.messages);
      } catch (e) {
        renderChat([{ role: 'assistant', content: e.message }]);
      }
    };

    {{if .Authenticated}}
    api('/api/summary').then(showSummary).catch(() => {});
    {{end}}
  </script>
</body>
</html>
`
