package server

// uiPageChromeCSS is shared by the search page and the static pages.
const uiPageChromeCSS = `
    :root {
      --bg: #f4f6fb;
      --bg2: #dde5f5;
      --ink: #1c2333;
      --muted: #5d6780;
      --bad: #b23a48;
      --accent: #2b5fb3;
      --line: #c9d3e6;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: "Hiragino Sans", "Noto Sans JP", "Segoe UI", sans-serif;
      color: var(--ink);
      background: linear-gradient(180deg, var(--bg2), var(--bg) 240px);
    }
    main { max-width: 860px; margin: 24px auto; padding: 0 16px; }
    .card {
      background: #fff;
      border: 1px solid var(--line);
      border-radius: 10px;
      padding: 16px;
      margin-bottom: 16px;
    }
    .muted { color: var(--muted); font-size: 13px; }
    a { color: var(--accent); text-decoration: none; }
    a:hover { text-decoration: underline; }
    button, a.nav-btn {
      display: inline-block;
      border: 1px solid var(--accent);
      border-radius: 6px;
      padding: 7px 12px;
      font-size: 14px;
      background: var(--accent);
      color: #fff;
      cursor: pointer;
    }
    button.secondary, button.key { background: #fff; color: var(--accent); border-color: var(--line); }
    a.nav-btn:hover { text-decoration: none; }
`
