package browser

// Element ids and the marker class used by the page script
const (
	overlayID   = "__autoclicker-overlay"
	followerID  = "__autoclicker-follower"
	bannerID    = "__autoclicker-banner"
	markerClass = "click-marker"

	bindingPoint  = "__autoclickerPoint"
	bindingEscape = "__autoclickerEscape"
	bindingFocus  = "__autoclickerFocus"

	helpText = "Press 'ESC' to leave configuration mode"
)

// bootstrapScript installs the listeners that report back through the bindings
const bootstrapScript = `
() => {
	if (window.__autoclickerInstalled) return;
	window.__autoclickerInstalled = true;

	document.addEventListener("keydown", (e) => {
		if (e.key === "Escape" && typeof window.` + bindingEscape + ` === "function") {
			window.` + bindingEscape + `();
		}
	});
	window.addEventListener("focus", () => {
		if (typeof window.` + bindingFocus + ` === "function") {
			window.` + bindingFocus + `();
		}
	});
}
`

// clickScript resolves the topmost element at a viewport position and
// dispatches the mouse event sequence on it
const clickScript = `
({ x, y }) => {
	const element = document.elementFromPoint(x, y);
	if (!element) return false;

	["mousemove", "mousedown", "mouseup", "click"].forEach((type) => {
		element.dispatchEvent(new MouseEvent(type, {
			bubbles: true,
			cancelable: true,
			view: window,
			clientX: x,
			clientY: y,
		}));
	});
	return true;
}
`

const overlayScript = `
(helpText) => {
	if (document.getElementById("` + overlayID + `")) return;

	const overlay = document.createElement("div");
	overlay.id = "` + overlayID + `";
	Object.assign(overlay.style, {
		position: "fixed", top: "0", left: "0", width: "100vw", height: "100vh",
		backgroundColor: "rgba(0, 0, 0, 0.2)", zIndex: "99999", cursor: "crosshair",
	});
	document.body.appendChild(overlay);

	const follower = document.createElement("div");
	follower.id = "` + followerID + `";
	Object.assign(follower.style, {
		position: "fixed", width: "10px", height: "10px", backgroundColor: "blue",
		borderRadius: "50%", pointerEvents: "none", zIndex: "100000",
		transform: "translate(-50%, -50%)",
	});
	document.body.appendChild(follower);

	overlay.addEventListener("mousemove", (e) => {
		follower.style.left = e.clientX + "px";
		follower.style.top = e.clientY + "px";
	});
	overlay.addEventListener("click", (e) => {
		window.` + bindingPoint + `(e.clientX, e.clientY);
	});

	const banner = document.createElement("div");
	banner.id = "` + bannerID + `";
	banner.textContent = helpText;
	Object.assign(banner.style, {
		position: "fixed", top: "10px", left: "50%", transform: "translateX(-50%)",
		backgroundColor: "rgba(0, 0, 0, 0.8)", color: "white", padding: "10px 20px",
		borderRadius: "5px", zIndex: "100001", fontFamily: "Arial, sans-serif", fontSize: "14px",
	});
	document.body.appendChild(banner);
}
`

const removeOverlayScript = `
() => {
	["` + overlayID + `", "` + followerID + `", "` + bannerID + `"].forEach((id) => {
		const el = document.getElementById(id);
		if (el) el.remove();
	});
}
`

// markers ignore pointer events so elementFromPoint sees the page underneath
const renderMarkersScript = `
(points) => {
	document.querySelectorAll(".` + markerClass + `").forEach((marker) => marker.remove());
	points.forEach(({ x, y }) => {
		const marker = document.createElement("div");
		marker.className = "` + markerClass + `";
		Object.assign(marker.style, {
			position: "fixed", width: "10px", height: "10px", backgroundColor: "red",
			borderRadius: "50%", left: x + "px", top: y + "px",
			transform: "translate(-50%, -50%)", zIndex: "100000", pointerEvents: "none",
		});
		document.body.appendChild(marker);
	});
	return document.querySelectorAll(".` + markerClass + `").length;
}
`
